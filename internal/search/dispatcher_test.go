package search

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pders01/fsearch/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink keeps every event for inspection.
type recordingSink struct {
	params   []output.Param
	matches  []string
	counted  []bool
	errors   []string
	finished int
	stats    output.Statistics
	failOn   string
}

func (s *recordingSink) Announce(params []output.Param) error {
	s.params = params
	return nil
}

func (s *recordingSink) record(msg string, counted bool) error {
	if s.failOn != "" && strings.Contains(msg, s.failOn) {
		return errors.Join(output.ErrOutput, errors.New("disk full"))
	}
	s.matches = append(s.matches, msg)
	s.counted = append(s.counted, counted)
	if counted {
		s.stats.Hits++
	}
	return nil
}

func (s *recordingSink) Match(msg string) error        { return s.record(msg, false) }
func (s *recordingSink) MatchCounted(msg string) error { return s.record(msg, true) }

func (s *recordingSink) Error(msg string) error {
	s.errors = append(s.errors, msg)
	s.stats.Errors++
	return nil
}

func (s *recordingSink) Finish() error {
	s.finished++
	return nil
}

func (s *recordingSink) Stats() output.Statistics { return s.stats }
func (s *recordingSink) Close() error             { return nil }

// countingEnumerator records whether enumeration happened.
type countingEnumerator struct {
	calls int
	paths []string
}

func (c *countingEnumerator) Paths(string) ([]string, error) {
	c.calls++
	return c.paths, nil
}

func run(t *testing.T, paths Enumerator, req Request) (*recordingSink, error) {
	t.Helper()
	sink := &recordingSink{}
	err := NewDispatcher(sink, paths, Options{}).Run(context.Background(), req)
	return sink, err
}

func TestDispatcher_FileNameReportsExactlyContainingPaths(t *testing.T) {
	paths := StaticEnumerator{"a/foo.txt", "b/bar.txt", "foo", "c/food/x.csv", "c/fo/o.txt"}

	sink, err := run(t, paths, Request{Glob: "**", Expression: "foo", Mode: ModeFileName})
	require.NoError(t, err)

	var want []string
	for _, p := range paths {
		if strings.Contains(p, "foo") {
			want = append(want, p)
		}
	}
	assert.Equal(t, want, sink.matches)
	assert.Equal(t, output.Statistics{Hits: 3}, sink.Stats())
	assert.Equal(t, 1, sink.finished)
}

func TestDispatcher_FileNameWithoutExpressionLists(t *testing.T) {
	paths := StaticEnumerator{"a.txt", "b.txt"}

	sink, err := run(t, paths, Request{Glob: "*.txt", Mode: ModeFileName})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, sink.matches)
	assert.Equal(t, []bool{false, false}, sink.counted)
	assert.Equal(t, output.Statistics{}, sink.Stats())
	assert.Equal(t, "(none)", sink.params[2].Value)
}

func TestDispatcher_LineSearchCountsAndNumbers(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"alpha", "foo one", "beta", "gamma foo", "foofoo", "delta"}
	path := writeFile(t, dir, "data.txt", strings.Join(lines, "\n"))

	sink, err := run(t, StaticEnumerator{path}, Request{Glob: path, Expression: "foo", Mode: ModeLineSearch})
	require.NoError(t, err)

	var want []string
	for i, line := range lines {
		if strings.Contains(line, "foo") {
			want = append(want, path+" :: "+strconv.Itoa(i)+" :: "+line)
		}
	}
	assert.Equal(t, want, sink.matches)
	assert.Equal(t, len(want), sink.Stats().Hits)
	assert.Equal(t, 0, sink.Stats().Errors)
}

func TestDispatcher_ZipCorruptAndValid(t *testing.T) {
	dir := t.TempDir()
	good := writeZip(t, dir, "a.zip", "keep/x.txt", "other/y.txt", "keep/z.txt")
	corrupt := writeFile(t, dir, "b.zip", "PK but not really")

	for _, mode := range []Mode{ModeZip, ModeZipRegex} {
		t.Run(mode.String(), func(t *testing.T) {
			sink, err := run(t, StaticEnumerator{corrupt, good}, Request{Glob: "*.zip", Expression: "keep/", Mode: mode})
			require.NoError(t, err)

			assert.Equal(t, []string{good + " :: keep/x.txt", good + " :: keep/z.txt"}, sink.matches)
			require.Len(t, sink.errors, 1)
			assert.Contains(t, sink.errors[0], corrupt)
			assert.Equal(t, output.Statistics{Hits: 2, Errors: 1}, sink.Stats())
		})
	}
}

func TestDispatcher_JSONPathOneLinePerFile(t *testing.T) {
	dir := t.TempDir()
	hit := writeFile(t, dir, "hit.json", `{"users": [{"name": "ann"}, {"name": "bob"}]}`)
	miss := writeFile(t, dir, "miss.json", `{"groups": []}`)

	sink, err := run(t, StaticEnumerator{miss, hit}, Request{Glob: "*.json", Expression: "$.users[*].name", Mode: ModeJSONPath})
	require.NoError(t, err)

	assert.Equal(t, []string{hit + ` :: ["ann","bob"]`}, sink.matches)
	assert.Equal(t, output.Statistics{Hits: 1}, sink.Stats())
}

func TestDispatcher_JSONPathEmptySelectionChangesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.json", `{"a": 1}`)

	sink, err := run(t, StaticEnumerator{path}, Request{Glob: "*.json", Expression: "$.b", Mode: ModeJSONPath})
	require.NoError(t, err)
	assert.Empty(t, sink.matches)
	assert.Empty(t, sink.errors)
	assert.Equal(t, output.Statistics{}, sink.Stats())
}

func TestDispatcher_PDFFailureIsAttributed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.pdf", "not a pdf")

	sink, err := run(t, StaticEnumerator{path}, Request{Glob: "*.pdf", Expression: "x", Mode: ModePDFSearch})
	require.NoError(t, err)
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], path)
	assert.Contains(t, sink.errors[0], "could not extract text")
}

func TestDispatcher_FeedSearch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "news.xml", testFeed)

	sink, err := run(t, StaticEnumerator{path}, Request{Glob: "*.xml", Expression: "released", Mode: ModeFeedSearch})
	require.NoError(t, err)
	assert.Equal(t, []string{path + " :: 0 :: Version 1.0 released"}, sink.matches)
}

func TestDispatcher_MissingExpressionEnumeratesNothing(t *testing.T) {
	for _, mode := range Modes() {
		if !mode.RequiresExpression() {
			continue
		}
		t.Run(mode.String(), func(t *testing.T) {
			paths := &countingEnumerator{paths: []string{"x"}}

			sink, err := run(t, paths, Request{Glob: "*", Mode: mode})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingExpression)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Equal(t, 0, paths.calls)
			assert.Nil(t, sink.params)
			assert.Equal(t, 0, sink.finished)
		})
	}
}

func TestDispatcher_BadRegexIsFatalBeforeAnyPath(t *testing.T) {
	paths := &countingEnumerator{paths: []string{"x"}}

	sink, err := run(t, paths, Request{Glob: "*", Expression: "([", Mode: ModeLineRegexSearch})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 0, paths.calls)
	assert.Nil(t, sink.params)
}

func TestDispatcher_BadGlobIsFatal(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, GlobEnumerator{}, Options{})

	err := d.Run(context.Background(), Request{Glob: filepath.Join(t.TempDir(), "["), Expression: "x", Mode: ModeLineSearch})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Nil(t, sink.params)
}

func TestDispatcher_OutputFailureAbortsRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one foo\ntwo foo\n")

	sink := &recordingSink{failOn: "two"}
	err := NewDispatcher(sink, StaticEnumerator{path}, Options{}).Run(
		context.Background(), Request{Glob: "*.txt", Expression: "foo", Mode: ModeLineSearch})

	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrOutput)
	assert.Len(t, sink.matches, 1)
	assert.Equal(t, 0, sink.finished)
}

func TestDispatcher_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	err := NewDispatcher(sink, StaticEnumerator{"a"}, Options{}).Run(ctx, Request{Glob: "*", Mode: ModeFileName})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.matches)
}

func TestDispatcher_RegexEngineErrorsAreObservable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", strings.Repeat("x", 40)+"\nxxy\n")

	sink := &recordingSink{}
	d := NewDispatcher(sink, StaticEnumerator{path}, Options{RegexTimeout: 5 * time.Millisecond})
	err := d.Run(context.Background(), Request{Glob: "*.txt", Expression: "(x+x+)+y", Mode: ModeLineRegexSearch})
	require.NoError(t, err)

	assert.Equal(t, []string{path + " :: 1 :: xxy"}, sink.matches)
	assert.Empty(t, sink.errors)
	assert.Equal(t, 1, d.EngineErrors())
}

func TestDispatcher_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "foo\nbar foo\n")
	writeFile(t, dir, "b.txt", "nothing\n")
	writeZip(t, dir, "c.zip", "foo.txt")
	req := Request{Glob: filepath.Join(dir, "*"), Expression: "foo", Mode: ModeLineSearch}

	render := func() string {
		var out, errOut bytes.Buffer
		sink := output.NewConsoleSink(&out, &errOut)
		require.NoError(t, NewDispatcher(sink, GlobEnumerator{}, Options{}).Run(context.Background(), req))
		return out.String() + errOut.String()
	}

	assert.Equal(t, render(), render())
}

func TestScenario_LineSearchOverTwoFiles(t *testing.T) {
	dir := t.TempDir()
	file1 := writeFile(t, dir, "file1.txt", "first\n  has foo here \nlast\n")
	writeFile(t, dir, "file2.txt", "nothing to see\n")

	var out, errOut bytes.Buffer
	sink := output.NewConsoleSink(&out, &errOut)
	err := NewDispatcher(sink, GlobEnumerator{}, Options{}).Run(context.Background(), Request{
		Glob:       filepath.Join(dir, "*.txt"),
		Expression: "foo",
		Mode:       ModeLineSearch,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), file1+" :: 1 :: has foo here\n")
	assert.NotContains(t, out.String(), "file2.txt ::")
	assert.True(t, strings.HasSuffix(out.String(), "Hits: 1\nErrors: 0\n"))
	assert.Empty(t, errOut.String())
	assert.Equal(t, output.Statistics{Hits: 1, Errors: 0}, sink.Stats())
}

func TestScenario_ZipThatDoesNotOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "missing.zip", "")

	var out, errOut bytes.Buffer
	sink := output.NewConsoleSink(&out, &errOut)
	err := NewDispatcher(sink, GlobEnumerator{}, Options{}).Run(context.Background(), Request{
		Glob:       filepath.Join(dir, "missing.zip"),
		Expression: "x",
		Mode:       ModeZip,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(errOut.String(), "\n"))
	assert.Contains(t, errOut.String(), "missing.zip")
	assert.Equal(t, output.Statistics{Hits: 0, Errors: 1}, sink.Stats())
}

func TestScenario_ZipPathThatDoesNotExist(t *testing.T) {
	sink, err := run(t, StaticEnumerator{filepath.Join(t.TempDir(), "missing.zip")}, Request{Glob: "missing.zip", Expression: "x", Mode: ModeZip})
	require.NoError(t, err)
	assert.Len(t, sink.errors, 1)
	assert.Equal(t, output.Statistics{Errors: 1}, sink.Stats())
}
