package legacy

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"tc-migrate/internal/schema"
)

// numericLiteral is a decimal number: optional sign, digits with an optional
// fraction (or a bare fraction), optional exponent.
var numericLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Coerce converts one token to its best-typed value. Arrays are tried first
// so that ["a","b"] is not mistaken for a quoted string. Every path that
// cannot produce a typed value returns the trimmed token as text.
func Coerce(token string) schema.Value {
	s := strings.TrimSpace(token)

	if enclosed(s, '[', ']') {
		var v schema.Value
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return schema.Text(s)
		}
		return v
	}

	if enclosed(s, '"', '"') || enclosed(s, '\'', '\'') {
		return schema.Text(s[1 : len(s)-1])
	}

	if f, ok := parseNumber(s); ok {
		return schema.Number(f)
	}

	return schema.Text(s)
}

func enclosed(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}

func parseNumber(s string) (float64, bool) {
	if !numericLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
