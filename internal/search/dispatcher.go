// Package search maps a search mode to a content adapter and a match
// strategy and drives them over the paths of a glob pattern, reporting
// matches and per-path errors to an output sink.
package search

import (
	"context"
	"time"

	"github.com/pders01/fsearch/internal/debuglog"
	"github.com/pders01/fsearch/internal/output"
)

// Options tune the strategies and adapters of a run.
type Options struct {
	// RegexTimeout bounds a single regex test. Zero means no limit.
	RegexTimeout time.Duration
	// SnippetGraphemes limits PDF snippets to the last N graphemes before
	// the match end. Zero keeps everything from the document start.
	SnippetGraphemes int
}

// Dispatcher runs requests against one sink.
type Dispatcher struct {
	sink  output.Sink
	paths Enumerator
	opts  Options
	regex *Regex
}

func NewDispatcher(sink output.Sink, paths Enumerator, opts Options) *Dispatcher {
	return &Dispatcher{sink: sink, paths: paths, opts: opts}
}

// Run validates req, announces it and searches every enumerated path.
//
// Configuration errors are returned before anything is written to the sink.
// Content errors are reported through the sink and do not stop the run. A
// failing sink ends the run with an error wrapping output.ErrOutput.
func (d *Dispatcher) Run(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	adapter, err := d.resolve(req)
	if err != nil {
		return err
	}

	paths, err := d.paths.Paths(req.Glob)
	if err != nil {
		return err
	}
	debuglog.Debugf("%s: %d paths for %q", req.Mode, len(paths), req.Glob)

	if err := d.sink.Announce(req.Params()); err != nil {
		return err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.scan(adapter, path); err != nil {
			return err
		}
	}

	if d.regex != nil && d.regex.EngineErrors() > 0 {
		debuglog.Warnf("%d regex tests failed in the engine and were treated as no match", d.regex.EngineErrors())
	}

	return d.sink.Finish()
}

// resolve builds the adapter and strategy for req.Mode.
func (d *Dispatcher) resolve(req Request) (Adapter, error) {
	b, ok := bindings[req.Mode]
	if !ok {
		return nil, configErr("no adapter for mode %s", req.Mode)
	}

	var m Matcher
	switch {
	case b.strategy == strategyQuery:
	case req.Expression == "":
		m = matchAll{}
	case b.strategy == strategyRegex:
		re, err := CompileRegex(req.Expression, d.opts.RegexTimeout)
		if err != nil {
			return nil, err
		}
		d.regex = re
		m = re
	default:
		m = NewLiteral(req.Expression)
	}

	return b.adapter(m, req.Expression, d.opts), nil
}

// scan runs the adapter on one path. Only sink failures are returned.
func (d *Dispatcher) scan(adapter Adapter, path string) error {
	results, scanErr := adapter.Scan(path)

	for _, r := range results {
		var err error
		if r.Counted {
			err = d.sink.MatchCounted(r.Message())
		} else {
			err = d.sink.Match(r.Message())
		}
		if err != nil {
			return err
		}
	}

	if scanErr == nil {
		return nil
	}

	cerr := &ContentError{Path: path, Err: scanErr}
	debuglog.WithFields(map[string]interface{}{"path": path}).Warnf("content error: %v", scanErr)
	return d.sink.Error(cerr.Error())
}

// EngineErrors reports regex engine failures of the last run.
func (d *Dispatcher) EngineErrors() int {
	if d.regex == nil {
		return 0
	}
	return d.regex.EngineErrors()
}
