// Package cursor provides a zero-copy scanning primitive over source text.
//
// A Cursor is an immutable view of the remaining input. Matchers consume a
// prefix of that view by longest match; consuming returns a new Cursor that
// shares the underlying string, so no allocation happens while scanning.
package cursor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher reports how many bytes of a matching prefix s has.
// A return of 0 means no match (or an empty one, which callers treat the same).
type Matcher func(s string) int

// Cursor is an immutable view over remaining source text.
type Cursor struct {
	rest string
}

func New(src string) Cursor {
	return Cursor{rest: src}
}

// Rest returns the unconsumed input.
func (c Cursor) Rest() string { return c.rest }

func (c Cursor) Empty() bool { return c.rest == "" }

// Skip consumes whatever m matches and returns the advanced cursor.
// If m does not match, the cursor is returned unchanged.
func (c Cursor) Skip(m Matcher) Cursor {
	n := m(c.rest)
	if n <= 0 {
		return c
	}
	return Cursor{rest: c.rest[n:]}
}

// Peek reports whether m matches a non-empty prefix without consuming it.
func (c Cursor) Peek(m Matcher) bool {
	return m(c.rest) > 0
}

// Take consumes a non-empty prefix matched by m, advancing the cursor in
// place. It returns the matched text and whether anything was consumed.
func (c *Cursor) Take(m Matcher) (string, bool) {
	n := m(c.rest)
	if n <= 0 {
		return "", false
	}
	matched := c.rest[:n]
	c.rest = c.rest[n:]
	return matched, true
}

// TakeRune consumes a single rune, if any.
func (c *Cursor) TakeRune() (rune, bool) {
	if c.rest == "" {
		return 0, false
	}
	r, w := utf8.DecodeRuneInString(c.rest)
	c.rest = c.rest[w:]
	return r, true
}

// runLength is the shared longest-match loop for predicate matchers.
func runLength(s string, pred func(r rune) bool) int {
	for i, r := range s {
		if !pred(r) {
			return i
		}
	}
	return len(s)
}

// Whitespace matches a run of whitespace.
func Whitespace() Matcher {
	return func(s string) int { return runLength(s, unicode.IsSpace) }
}

// Alphanumeric matches a run of letters and digits (Unicode-aware).
func Alphanumeric() Matcher {
	return func(s string) int {
		return runLength(s, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		})
	}
}

// Word matches the literal pattern only when it is not immediately followed
// by a letter or underscore, so keywords do not bite into identifiers.
func Word(pattern string) Matcher {
	return func(s string) int {
		if !strings.HasPrefix(s, pattern) {
			return 0
		}
		tail := s[len(pattern):]
		if tail != "" {
			r, _ := utf8.DecodeRuneInString(tail)
			if unicode.IsLetter(r) || r == '_' {
				return 0
			}
		}
		return len(pattern)
	}
}

// Literal matches the exact pattern as a prefix, with no boundary rule.
func Literal(pattern string) Matcher {
	return func(s string) int {
		if !strings.HasPrefix(s, pattern) {
			return 0
		}
		return len(pattern)
	}
}

// Char matches exactly one occurrence of r.
func Char(r rune) Matcher {
	return func(s string) int {
		if s == "" {
			return 0
		}
		first, w := utf8.DecodeRuneInString(s)
		if first != r {
			return 0
		}
		return w
	}
}

// CharAny matches exactly one occurrence of any rune in set.
func CharAny(set ...rune) Matcher {
	return func(s string) int {
		if s == "" {
			return 0
		}
		first, w := utf8.DecodeRuneInString(s)
		for _, r := range set {
			if first == r {
				return w
			}
		}
		return 0
	}
}

// Or tries each matcher in order and keeps the first non-empty match.
func Or(matchers ...Matcher) Matcher {
	return func(s string) int {
		for _, m := range matchers {
			if n := m(s); n > 0 {
				return n
			}
		}
		return 0
	}
}

// Number matches a numeric literal: an optional leading '-' (ASCII or the
// U+2212 minus glyph), digits, and at most one decimal point.
//
// A short sign-led prefix that runs into a non-numeric character is rejected,
// so "- 2" and "-x" leave the minus for the operator scan while "-90" and
// "-0.25" still match as signed literals.
func Number() Matcher {
	const minusSign = '−'
	inClass := func(r rune) bool {
		return (r >= '0' && r <= '9') || r == '.' || r == '-' || r == minusSign
	}
	return func(s string) int {
		run := runLength(s, inClass)
		if run < len(s) && utf8.RuneCountInString(s[:run]) <= 2 {
			first, _ := utf8.DecodeRuneInString(s)
			if run > 0 && !(first >= '0' && first <= '9') {
				return 0
			}
		}
		seenPoint := false
		i := 0
		for _, r := range s {
			switch {
			case i == 0 && (r == '-' || r == minusSign):
			case r == '.' && !seenPoint:
				seenPoint = true
			case r >= '0' && r <= '9':
			default:
				return i
			}
			i += utf8.RuneLen(r)
		}
		return i
	}
}
