// Package parser extracts order records from sale notification bodies.
//
// Each field is described by a priority-ordered list of matchers. The first
// matcher that succeeds supplies the value and the rest are not tried.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Matcher extracts a single value from text
type Matcher func(text string) (string, bool)

// Regex builds a matcher returning the first capture group of pattern, trimmed.
// It panics if pattern does not compile.
func Regex(pattern string) Matcher {
	re := regexp.MustCompile(pattern)
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			return "", false
		}
		return strings.TrimSpace(m[1]), true
	}
}

// Patterns builds one regex matcher per pattern, prefixing each with flags
// (for example "(?im)")
func Patterns(flags string, patterns ...string) []Matcher {
	matchers := make([]Matcher, 0, len(patterns))
	for _, p := range patterns {
		matchers = append(matchers, Regex(flags+p))
	}
	return matchers
}

// FirstMatch returns the value of the first matcher that succeeds
func FirstMatch(text string, matchers ...Matcher) (string, bool) {
	for _, m := range matchers {
		if v, ok := m(text); ok {
			return v, true
		}
	}
	return "", false
}

// matchString returns the first match as an optional string
func matchString(text string, matchers []Matcher) *string {
	v, ok := FirstMatch(text, matchers...)
	if !ok {
		return nil
	}
	return &v
}

// matchPrice returns the first match parsed as a decimal amount.
// Thousands separators are stripped; an unparsable capture leaves the field unset.
func matchPrice(text string, matchers []Matcher) *decimal.Decimal {
	v, ok := FirstMatch(text, matchers...)
	if !ok {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return nil
	}
	return &d
}
