package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fp and ip are pointer helpers shared by the package tests.
func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		ok       bool
	}{
		{"bare float", 2.9, 2.9, true},
		{"bare int", 42, 42, true},
		{"json number", json.Number("3.14"), 3.14, true},
		{"numeric string", "748120.98", 748120.98, true},
		{"uncertainty string", "2.9 ± 0.5", 2.9, true},
		{"uncertainty with plus-minus words", "density 1.3 +/- 0.6 g/cm3", 1.3, true},
		{"scientific notation", "6.687e15", 6.687e15, true},
		{"negative value", "-12.5", -12.5, true},
		{"embedded units", "17.5 km/s", 17.5, true},
		{"value wrapper", map[string]any{"value": 2.72}, 2.72, true},
		{"value wrapper with string", map[string]any{"value": "5.2 ± 0.1"}, 5.2, true},
		{"nested value wrapper", map[string]any{"value": map[string]any{"value": 1.1}}, 1.1, true},
		{"wrapper without value key", map[string]any{"unit": "km"}, 0, false},
		{"empty string", "", 0, false},
		{"non-numeric string", "unknown", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := CoerceFloat(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{"neows full format", "2025-Sep-24 11:31", time.Date(2025, 9, 24, 11, 31, 0, 0, time.UTC), true},
		{"rfc3339", "2025-09-24T11:31:00Z", time.Date(2025, 9, 24, 11, 31, 0, 0, time.UTC), true},
		{"numeric datetime", "2025-09-24 11:31", time.Date(2025, 9, 24, 11, 31, 0, 0, time.UTC), true},
		{"date only", "2025-09-24", time.Date(2025, 9, 24, 0, 0, 0, 0, time.UTC), true},
		{"surrounding whitespace", "  2025-09-24  ", time.Date(2025, 9, 24, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "soon", time.Time{}, false},
		{"partial date", "2025-09", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseTimestamp(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
