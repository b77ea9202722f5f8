// Package output renders search events (parameter summaries, matches,
// errors and final statistics) to the console, a delimited file or an HTML
// report. Every sink owns the statistics for exactly one run.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pders01/fsearch/internal/debuglog"
)

// ErrOutput marks failures of the output channel itself. They are fatal for
// the run.
var ErrOutput = errors.New("output channel failure")

// Separator joins the segments of a result message.
const Separator = " :: "

// Target selects a renderer.
type Target int

const (
	TargetConsole Target = iota
	TargetFile
	TargetHTML
)

func (t Target) String() string {
	switch t {
	case TargetConsole:
		return "console"
	case TargetFile:
		return "file"
	case TargetHTML:
		return "html"
	default:
		return "unknown"
	}
}

// ParseTarget parses the --output flag value.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return TargetConsole, nil
	case "file":
		return TargetFile, nil
	case "html":
		return TargetHTML, nil
	default:
		return TargetConsole, fmt.Errorf("unknown output %q (want console, file or html)", s)
	}
}

// Param is one entry of the parameter summary announced before a run.
type Param struct {
	Key   string
	Value string
}

// Statistics counts hits and errors of a single run. Counts only grow.
type Statistics struct {
	Hits   int
	Errors int
}

func (s *Statistics) hit() {
	s.Hits++
}

func (s *Statistics) fail() {
	s.Errors++
}

// Sink receives the events of one run.
type Sink interface {
	// Announce reports the run parameters before any path is processed.
	Announce(params []Param) error
	// Match reports a result without counting it as a hit.
	Match(msg string) error
	// MatchCounted reports a result and counts it as a hit.
	MatchCounted(msg string) error
	// Error reports a recoverable error and counts it.
	Error(msg string) error
	// Finish writes the final statistics. It is called once per run.
	Finish() error
	Stats() Statistics
	Close() error
}

// New builds the sink for target. File and HTML targets without a path fall
// back to the console.
func New(target Target, path string, stdout, stderr io.Writer) (Sink, error) {
	if target != TargetConsole && path == "" {
		debuglog.Infof("no output file given for %s output, falling back to console", target)
		target = TargetConsole
	}

	switch target {
	case TargetFile:
		return NewFileSink(path)
	case TargetHTML:
		return NewHTMLSink(path)
	default:
		return NewConsoleSink(stdout, stderr), nil
	}
}

func wrapWrite(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrOutput, err)
}
