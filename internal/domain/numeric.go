package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// floatTokenRe matches the first floating-point token inside a descriptive
// string, e.g. "2.9 ± 0.5" -> "2.9" or "mass 1.3e12 kg" -> "1.3e12".
var floatTokenRe = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`)

// timestampLayouts are tried in order by ParseTimestamp. The NeoWs
// close_approach_date_full layout comes first since it is the common case.
var timestampLayouts = []string{
	"2006-Jan-02 15:04",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// CoerceFloat extracts a float64 from heterogeneous catalog representations:
// bare numbers, json.Number, numeric strings with embedded uncertainty
// ("2.9 ± 0.5"), and {"value": ...} wrapper objects. Returns false when no
// numeric value can be recovered; it never panics on odd shapes.
func CoerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return firstFloatToken(val.String())
		}
		return f, true
	case string:
		return firstFloatToken(val)
	case map[string]any:
		inner, ok := val["value"]
		if !ok {
			return 0, false
		}
		return CoerceFloat(inner)
	default:
		return 0, false
	}
}

// firstFloatToken parses the first float-looking token in s.
func firstFloatToken(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	token := floatTokenRe.FindString(s)
	if token == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseTimestamp parses a timestamp string against the known upstream layouts,
// returning false when none matches. All results are UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
