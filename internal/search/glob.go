package search

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Enumerator expands a glob pattern into candidate paths.
type Enumerator interface {
	Paths(pattern string) ([]string, error)
}

// GlobEnumerator expands patterns on the local filesystem, including "**".
// Entries that cannot be read are skipped; only a malformed pattern fails.
type GlobEnumerator struct{}

func (GlobEnumerator) Paths(pattern string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid glob pattern %q: %w", ErrConfiguration, pattern, err)
	}
	return paths, nil
}

// StaticEnumerator returns a fixed path list regardless of the pattern.
type StaticEnumerator []string

func (s StaticEnumerator) Paths(string) ([]string, error) {
	return s, nil
}
