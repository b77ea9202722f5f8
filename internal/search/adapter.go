package search

import (
	"strings"

	"github.com/pders01/fsearch/internal/output"
)

// Adapter turns one enumerated path into zero or more results.
//
// Results found before a failure are returned together with the error; the
// error is reported against the path and the run continues.
type Adapter interface {
	Scan(path string) ([]Result, error)
}

// Result is one match for a path. Detail holds the segments that follow the
// path (entry name, line or item number, position, snippet) in output order.
type Result struct {
	Path    string
	Detail  []string
	Counted bool
}

// Message renders r as a "::" separated line.
func (r Result) Message() string {
	if len(r.Detail) == 0 {
		return r.Path
	}
	return r.Path + output.Separator + strings.Join(r.Detail, output.Separator)
}
