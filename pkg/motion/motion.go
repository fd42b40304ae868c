// Package motion discovers jump candidates in visible text: word starts,
// row starts, and matches of a literal or regular-expression query.
//
// Positions are rune-column based and limited to the rows the host reports
// as visible; the jump core only ever labels what is on screen.
//
// Boundary detection is regex-driven. The patterns need lookbehind (a word
// start is a word rune NOT preceded by one), which the stdlib regexp engine
// cannot express, hence regexp2.
package motion

import (
	"strings"
	"time"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/vanderheijden86/leapkey/pkg/debug"
	"github.com/vanderheijden86/leapkey/pkg/jump"
)

// Span is the half-open range of visible rows [Top, Bottom).
type Span struct {
	Top    int
	Bottom int
}

// clamp bounds the span to the buffer.
func (s Span) clamp(n int) Span {
	if s.Top < 0 {
		s.Top = 0
	}
	if s.Bottom > n {
		s.Bottom = n
	}
	return s
}

// patternTimeout caps user-supplied pattern evaluation; a pattern that
// backtracks past it simply yields no candidates.
const patternTimeout = time.Second

var (
	// A word rune not preceded by a word rune.
	wordStartRe = regexp2.MustCompile(`(?<![\p{L}\p{N}_])[\p{L}\p{N}_]`, regexp2.None)
	// Word starts plus camelCase humps and runs after underscores.
	subWordStartRe = regexp2.MustCompile(
		`(?<![\p{L}\p{N}_])[\p{L}\p{N}_]|(?<=\p{Ll})\p{Lu}|(?<=_)[\p{L}\p{N}]`, regexp2.None)
	// A non-space not preceded by a non-space.
	fullWordStartRe = regexp2.MustCompile(`(?<!\S)\S`, regexp2.None)
)

// WordStarts returns the word-start positions of the given kind within the
// visible rows.
func WordStarts(lines []string, visible Span, kind jump.WordKind) []jump.Point {
	re := wordStartRe
	switch kind {
	case jump.SubWord:
		re = subWordStartRe
	case jump.FullWord:
		re = fullWordStartRe
	}
	return scan(lines, visible, re)
}

// RowStarts returns the first column of every visible row, skipping rows
// that are entirely blank.
func RowStarts(lines []string, visible Span) []jump.Point {
	visible = visible.clamp(len(lines))
	var out []jump.Point
	for row := visible.Top; row < visible.Bottom; row++ {
		if strings.TrimSpace(lines[row]) == "" {
			continue
		}
		out = append(out, jump.Point{Row: row})
	}
	return out
}

// SearchLiteral returns every occurrence of the query within the visible
// rows. An all-lowercase query matches case-insensitively.
func SearchLiteral(lines []string, visible Span, query string) []jump.Point {
	if query == "" {
		return nil
	}
	opts := regexp2.None
	if !strings.ContainsFunc(query, unicode.IsUpper) {
		opts = regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(regexp2.Escape(query), opts)
	if err != nil {
		debug.Log("motion: literal compile failed: %v", err)
		return nil
	}
	return scan(lines, visible, re)
}

// SearchPattern returns every match of a user-supplied regular expression
// within the visible rows. A pattern that fails to compile, or that runs
// past the evaluation timeout, yields no candidates.
func SearchPattern(lines []string, visible Span, pattern string) []jump.Point {
	if pattern == "" {
		return nil
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		debug.Log("motion: pattern compile failed: %v", err)
		return nil
	}
	re.MatchTimeout = patternTimeout
	return scan(lines, visible, re)
}

// FilterDirection keeps only positions on the wanted side of the cursor.
func FilterDirection(pts []jump.Point, cursor jump.Point, dir jump.Direction) []jump.Point {
	if dir == jump.BiDirectional {
		return pts
	}
	out := pts[:0]
	for _, p := range pts {
		switch dir {
		case jump.Forwards:
			if cursor.Before(p) {
				out = append(out, p)
			}
		case jump.Backwards:
			if p.Before(cursor) {
				out = append(out, p)
			}
		}
	}
	return out
}

// scan applies the regex to each visible row. Match indexes from regexp2
// are rune offsets, which is exactly the column unit used by jump.Point.
func scan(lines []string, visible Span, re *regexp2.Regexp) []jump.Point {
	visible = visible.clamp(len(lines))
	var out []jump.Point
	for row := visible.Top; row < visible.Bottom; row++ {
		m, err := re.FindStringMatch(lines[row])
		for err == nil && m != nil {
			out = append(out, jump.Point{Row: row, Col: m.Index})
			m, err = re.FindNextMatch(m)
		}
		if err != nil {
			debug.Log("motion: match error on row %d: %v", row, err)
			return nil
		}
	}
	return out
}
