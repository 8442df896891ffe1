package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dimitrije/listing-browser/internal/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// StatusError is returned when the listing endpoint answers with a non-2xx
// status.
type StatusError struct {
	Method string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d (%s)", e.Code, e.Method)
}

type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// HTTPSource talks to a single endpoint: GET lists every listing, POST
// creates one.
type HTTPSource struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewHTTPSource(url string, timeout time.Duration, breaker BreakerConfig, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if breaker.MaxFailures == 0 {
		breaker.MaxFailures = 5
	}

	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "listing-source",
			Timeout: breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breaker.MaxFailures
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]models.RawListing, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Method: http.MethodGet, Code: resp.StatusCode}
		}

		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		var raws []models.RawListing
		if err := dec.Decode(&raws); err != nil {
			return nil, fmt.Errorf("failed to decode listings: %w", err)
		}
		if raws == nil {
			return nil, errors.New("failed to decode listings: response body is null")
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}

	raws, _ := result.([]models.RawListing)
	return raws, nil
}

func (s *HTTPSource) Submit(ctx context.Context, input models.ListingInput) (string, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode listing: %w", err)
	}

	result, err := s.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Method: http.MethodPost, Code: resp.StatusCode}
		}

		return createdID(resp.Body), nil
	})
	if err != nil {
		return "", err
	}

	id, _ := result.(string)
	return id, nil
}

// createdID picks an "id" out of a POST response body if there is one. The
// body is otherwise ignored.
func createdID(body io.Reader) string {
	dec := json.NewDecoder(io.LimitReader(body, 1<<20))
	dec.UseNumber()

	var created struct {
		ID any `json:"id"`
	}
	if err := dec.Decode(&created); err != nil {
		return ""
	}
	id, _ := models.FormatID(created.ID)
	return id
}
