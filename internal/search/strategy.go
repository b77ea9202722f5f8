package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/pders01/fsearch/internal/debuglog"
)

// Matcher tests a single text unit.
type Matcher interface {
	// FindIndex returns the byte offsets [start, end) of the first match in
	// s, or nil when there is none.
	FindIndex(s string) []int
}

// Literal matches a case-sensitive substring with no escaping.
type Literal struct {
	pattern string
}

func NewLiteral(pattern string) *Literal {
	return &Literal{pattern: pattern}
}

func (l *Literal) FindIndex(s string) []int {
	i := strings.Index(s, l.pattern)
	if i < 0 {
		return nil
	}
	return []int{i, i + len(l.pattern)}
}

// Regex matches with a backtracking engine compiled once per run.
//
// An engine failure, such as a match timeout, counts as "no match". Every
// such failure is logged and counted so callers can tell it apart from a
// plain miss.
type Regex struct {
	re           *regexp2.Regexp
	engineErrors int
}

// CompileRegex compiles expr. A zero timeout disables the match timeout.
func CompileRegex(expr string, timeout time.Duration) (*Regex, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid regular expression %q: %w", ErrConfiguration, expr, err)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return &Regex{re: re}, nil
}

func (r *Regex) FindIndex(s string) []int {
	m, err := r.re.FindStringMatch(s)
	if err != nil {
		r.engineErrors++
		debuglog.Warnf("regex %q failed on a %d byte unit, treating as no match: %v", r.re.String(), len(s), err)
		return nil
	}
	if m == nil {
		return nil
	}
	// regexp2 reports positions in runes.
	start := byteOffset(s, 0, m.Index)
	end := byteOffset(s, start, m.Length)
	return []int{start, end}
}

// EngineErrors reports how many tests failed inside the regex engine.
func (r *Regex) EngineErrors() int {
	return r.engineErrors
}

// byteOffset advances runes runes from byte position from in s.
func byteOffset(s string, from, runes int) int {
	n := 0
	for i := range s[from:] {
		if n == runes {
			return from + i
		}
		n++
	}
	return len(s)
}

// matchAll accepts every unit. FileName uses it when listing without an
// expression.
type matchAll struct{}

func (matchAll) FindIndex(string) []int {
	return []int{0, 0}
}
