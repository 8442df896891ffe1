package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestClient serves requests straight into a handler and records the
// response.
type HTTPTestClient struct {
	t       *testing.T
	handler http.Handler
}

func NewHTTPTestClient(t *testing.T, handler http.Handler) *HTTPTestClient {
	return &HTTPTestClient{t: t, handler: handler}
}

// RequestOption adjusts a request before it is served.
type RequestOption func(*http.Request) *http.Request

// WithRequestID sets the X-Request-ID header.
func WithRequestID(id string) RequestOption {
	return func(r *http.Request) *http.Request {
		r.Header.Set("X-Request-ID", id)
		return r
	}
}

// WithContext serves the request under ctx, e.g. to end a stream.
func WithContext(ctx context.Context) RequestOption {
	return func(r *http.Request) *http.Request {
		return r.WithContext(ctx)
	}
}

// Request serves one request. A non-nil body is sent as JSON; a
// json.RawMessage goes out untouched.
func (c *HTTPTestClient) Request(method, path string, body any, opts ...RequestOption) *httptest.ResponseRecorder {
	c.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(c.t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		req = opt(req)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *HTTPTestClient) GET(path string, opts ...RequestOption) *httptest.ResponseRecorder {
	return c.Request(http.MethodGet, path, nil, opts...)
}

func (c *HTTPTestClient) POST(path string, body any, opts ...RequestOption) *httptest.ResponseRecorder {
	return c.Request(http.MethodPost, path, body, opts...)
}

// ParseJSON decodes the response body into v.
func ParseJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "failed to parse response JSON: %s", rec.Body.String())
}

func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rec.Code, "unexpected status, body: %s", rec.Body.String())
}

// AssertJSON checks that the response body is a JSON object holding at
// least the expected fields. Numbers decode as float64.
func AssertJSON(t *testing.T, rec *httptest.ResponseRecorder, expected map[string]any) {
	t.Helper()
	var actual map[string]any
	ParseJSON(t, rec, &actual)

	for key, want := range expected {
		got, ok := actual[key]
		if assert.True(t, ok, "expected key %q in response", key) {
			assert.Equal(t, want, got, "field %q", key)
		}
	}
}
