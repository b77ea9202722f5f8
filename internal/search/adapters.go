package search

import (
	"archive/zip"
	"bufio"
	"errors"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxLineSize bounds a single line in line modes.
const maxLineSize = 16 * 1024 * 1024

// nameAdapter tests the path string itself and never touches content.
type nameAdapter struct {
	match   Matcher
	counted bool
}

func newNameAdapter(m Matcher, expr string, _ Options) Adapter {
	return &nameAdapter{match: m, counted: expr != ""}
}

func (a *nameAdapter) Scan(path string) ([]Result, error) {
	if a.match.FindIndex(path) == nil {
		return nil, nil
	}
	return []Result{{Path: path, Counted: a.counted}}, nil
}

// lineAdapter tests each line with its 0-based number.
type lineAdapter struct {
	match Matcher
}

func newLineAdapter(m Matcher, _ string, _ Options) Adapter {
	return &lineAdapter{match: m}
}

func (a *lineAdapter) Scan(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var results []Result
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for n := 0; scanner.Scan(); n++ {
		line := scanner.Text()
		if a.match.FindIndex(line) == nil {
			continue
		}
		results = append(results, Result{
			Path:    path,
			Detail:  []string{strconv.Itoa(n), strings.TrimSpace(line)},
			Counted: true,
		})
	}
	if err := scanner.Err(); err != nil {
		return results, wrapErr("reading lines", err)
	}
	return results, nil
}

// zipAdapter tests the entry names of an archive.
type zipAdapter struct {
	match Matcher
}

func newZipAdapter(m Matcher, _ string, _ Options) Adapter {
	return &zipAdapter{match: m}
}

func (a *zipAdapter) Scan(path string) ([]Result, error) {
	r, err := zip.OpenReader(path)
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && r != nil) {
		return nil, wrapErr("opening archive", err)
	}
	defer r.Close()

	var results []Result
	for _, entry := range r.File {
		name := entry.Name
		if name == "" || !utf8.ValidString(name) {
			continue
		}
		if a.match.FindIndex(name) == nil {
			continue
		}
		results = append(results, Result{Path: path, Detail: []string{name}, Counted: true})
	}
	return results, nil
}
