package search

import (
	"github.com/pders01/fsearch/internal/output"
)

// Request describes one search run. It is built once from the command line
// and not changed afterwards.
type Request struct {
	Glob string
	// Expression is a literal, a regular expression or a JSON-path query
	// depending on Mode. Empty means absent.
	Expression string
	Mode       Mode
	Output     output.Target
	// File is the output path for file and HTML targets.
	File string
}

// Validate checks everything that must hold before any path is touched.
func (r Request) Validate() error {
	if !r.Mode.valid() {
		return configErr("unknown mode %d", int(r.Mode))
	}
	if r.Mode.RequiresExpression() && r.Expression == "" {
		return ErrMissingExpression
	}
	if r.Glob == "" {
		return configErr("glob pattern is required")
	}
	return nil
}

// Params is the parameter summary announced before a run.
func (r Request) Params() []output.Param {
	expr := r.Expression
	if expr == "" {
		expr = "(none)"
	}
	return []output.Param{
		{Key: "Mode", Value: r.Mode.String()},
		{Key: "Glob pattern", Value: r.Glob},
		{Key: "Search expression", Value: expr},
		{Key: "Output", Value: r.Output.String()},
	}
}
