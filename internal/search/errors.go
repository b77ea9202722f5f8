package search

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a request that cannot run at all. It is reported
	// before any path is processed.
	ErrConfiguration = errors.New("configuration error")

	// ErrMissingExpression is returned when the mode needs a search
	// expression and none was given.
	ErrMissingExpression = fmt.Errorf("%w: missing search expression", ErrConfiguration)

	// ErrContent marks a failure confined to one path. The run continues.
	ErrContent = errors.New("content error")
)

// MissingExpressionHelp is printed when ErrMissingExpression ends a run.
const MissingExpressionHelp = "Please enter the search expression with e.g: '--search-expression tb_'"

// ContentError attributes a recoverable failure to the path that caused it.
type ContentError struct {
	Path string
	Err  error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("could not process path %q: %v", e.Path, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

func (e *ContentError) Is(target error) bool {
	return target == ErrContent
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
