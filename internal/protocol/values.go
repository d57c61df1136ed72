package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// stringify renders a loosely typed JSON value the way share-link
// producers expect it to be read back.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// truthy reports whether a decoded JSON value counts as present.
// Empty strings, zero numbers, false and null do not.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	default:
		return true
	}
}

// firstTruthy returns the string form of the first present value.
func firstTruthy(values ...any) string {
	for _, v := range values {
		if truthy(v) {
			return stringify(v)
		}
	}
	return ""
}

// parseLeadingInt reads a base-10 integer prefix, ignoring leading
// whitespace and any trailing garbage ("443/tcp" is 443).
func parseLeadingInt(raw string) (int, error) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("%q is out of range: %w", raw, err)
	}
	return n, nil
}

// decodeBase64 is a forgiving standard-alphabet decoder: ASCII whitespace
// is ignored and "=" padding is optional.
func decodeBase64(raw string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			return -1
		}
		return r
	}, raw)
	if len(cleaned)%4 == 0 {
		cleaned = strings.TrimSuffix(cleaned, "=")
		cleaned = strings.TrimSuffix(cleaned, "=")
	}
	return base64.RawStdEncoding.DecodeString(cleaned)
}
