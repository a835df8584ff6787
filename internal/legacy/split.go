// Package legacy reads the delimited test-case text that predates the
// normalized test_cases table: "(v1, v2, ...), (v1, v2, ...)".
package legacy

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tc-migrate/internal/schema"
)

// groupDelimiter separates tuples. Splitting on this literal is not
// parenthesis-aware: a value containing "), (" ends its tuple early.
const groupDelimiter = "), ("

// SplitGroups cuts raw into tuple bodies, stripping one leading "(" and one
// trailing ")" from each.
func SplitGroups(raw string) []string {
	parts := strings.Split(strings.TrimSpace(raw), groupDelimiter)
	for i, p := range parts {
		p = strings.TrimPrefix(p, "(")
		p = strings.TrimSuffix(p, ")")
		parts[i] = p
	}
	return parts
}

// SplitTokens splits a tuple body on commas outside brackets and quotes.
func SplitTokens(group string) []string {
	var tokens []string
	scanTokens(group, func(tok string) {
		tokens = append(tokens, tok)
	})
	return tokens
}

// SmartSplit splits a tuple body and coerces each token as it is cut.
func SmartSplit(group string) schema.ParsedTestCase {
	tc := schema.ParsedTestCase{}
	scanTokens(group, func(tok string) {
		tc = append(tc, Coerce(tok))
	})
	return tc
}

// scanTokens never rejects input. Unterminated quotes swallow the rest of the
// group and a stray "]" drives depth negative, which keeps later commas
// inside the current token.
func scanTokens(group string, emit func(string)) {
	var (
		current   strings.Builder
		inQuotes  bool
		quoteChar rune
		depth     int
	)

	for _, ch := range group {
		switch {
		case inQuotes:
			if ch == quoteChar {
				inQuotes = false
			}
			current.WriteRune(ch)
		case ch == '"' || ch == '\'':
			inQuotes = true
			quoteChar = ch
			current.WriteRune(ch)
		case ch == '[':
			depth++
			current.WriteRune(ch)
		case ch == ']':
			depth--
			current.WriteRune(ch)
		case ch == ',' && depth == 0:
			emit(strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	if last := strings.TrimSpace(current.String()); last != "" {
		emit(last)
	}
}

// Parse turns a legacy string into test cases. Tuples without any token are
// dropped. The only error is text that is not valid UTF-8.
func Parse(raw string) ([]schema.ParsedTestCase, error) {
	if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("legacy test cases are not valid UTF-8")
	}

	var cases []schema.ParsedTestCase
	for _, group := range SplitGroups(raw) {
		tc := SmartSplit(group)
		if len(tc) == 0 {
			continue
		}
		cases = append(cases, tc)
	}
	return cases, nil
}
