package search

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ledongthuc/pdf"
	"github.com/rivo/uniseg"
)

type pdfAdapter struct {
	match     Matcher
	graphemes int
}

func newPDFAdapter(m Matcher, _ string, opts Options) Adapter {
	return &pdfAdapter{match: m, graphemes: opts.SnippetGraphemes}
}

// Scan reports the first occurrence in the extracted text as
// "<offset> :: @@<snippet>@@".
func (a *pdfAdapter) Scan(path string) ([]Result, error) {
	text, err := extractText(path)
	if err != nil {
		return nil, wrapErr("could not extract text", err)
	}

	loc := a.match.FindIndex(text)
	if loc == nil {
		return nil, nil
	}

	return []Result{{
		Path:    path,
		Detail:  []string{strconv.Itoa(loc[0]), "@@" + snippet(text, loc[1], a.graphemes) + "@@"},
		Counted: true,
	}}, nil
}

// extractText returns the plain text of every page. The reader panics on
// some malformed documents; that is reported as an error.
func extractText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed document: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// snippet returns text from its start up to the first grapheme boundary at
// or after end, so no user-perceived character is split. A positive limit
// keeps only the last limit graphemes.
func snippet(text string, end, limit int) string {
	if end <= 0 {
		return ""
	}

	var starts []int
	cut := len(text)
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		from, to := g.Positions()
		if limit > 0 {
			starts = append(starts, from)
			if len(starts) > limit {
				starts = starts[1:]
			}
		}
		if to >= end {
			cut = to
			break
		}
	}

	if limit > 0 && len(starts) > 0 {
		return text[starts[0]:cut]
	}
	return text[:cut]
}
