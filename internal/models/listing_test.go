package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatID(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"string", " abc ", "abc", true},
		{"blank string", "  ", "", false},
		{"number integer", json.Number("7"), "7", true},
		{"number trailing zero", json.Number("7.0"), "7", true},
		{"number exponent", json.Number("1e3"), "1000", true},
		{"number fraction", json.Number("7.5"), "7.5", true},
		{"large number", json.Number("9007199254740993"), "9007199254740993", true},
		{"float", float64(7), "7", true},
		{"float fraction", 7.5, "7.5", true},
		{"float nan", math.NaN(), "", false},
		{"int", 12, "12", true},
		{"int64", int64(12), "12", true},
		{"nil", nil, "", false},
		{"bool", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatID(tt.in)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatID_SameIDAcrossSources(t *testing.T) {
	fromJSON, _ := FormatID(json.Number("42.0"))
	fromMemory, _ := FormatID(float64(42))

	assert.Equal(t, fromMemory, fromJSON)
}
