package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/pders01/fsearch/internal/debuglog"
)

// jsonAdapter evaluates the expression as a JSON-path query and reports the
// whole selection of a document as one result.
type jsonAdapter struct {
	query    gval.Evaluable
	plural   bool
	queryErr error
}

// queryLanguage is JSON-path with full gval expressions in filters, so
// comparisons such as ?(@.id > 1) are available.
var queryLanguage = gval.Full(jsonpath.Language())

func newJSONAdapter(_ Matcher, expr string, _ Options) Adapter {
	query, err := queryLanguage.NewEvaluable(expr)
	if err != nil {
		return &jsonAdapter{queryErr: fmt.Errorf("invalid JSON-path query %q: %w", expr, err)}
	}
	return &jsonAdapter{query: query, plural: selectsMany(query)}
}

// selectsMany reports whether query can select several values. Such queries
// (wildcards, slices, filters, unions, recursive descent) yield a list even
// on an empty document, while a plain path fails on it or returns a single
// value.
func selectsMany(query gval.Evaluable) bool {
	v, err := query(context.Background(), map[string]interface{}{})
	if err != nil {
		return false
	}
	_, ok := v.([]interface{})
	return ok
}

func (a *jsonAdapter) Scan(path string) ([]Result, error) {
	if a.queryErr != nil {
		return nil, a.queryErr
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := decodeJSON(data)
	if err != nil {
		return nil, wrapErr("malformed JSON", err)
	}

	selection := a.selection(doc)
	if len(selection) == 0 {
		return nil, nil
	}

	rendered, err := renderJSON(selection)
	if err != nil {
		return nil, wrapErr("rendering selection", err)
	}
	return []Result{{Path: path, Detail: []string{rendered}, Counted: true}}, nil
}

// decodeJSON parses a single JSON document. Numbers become float64 only
// when that keeps their value; the others stay json.Number and are written
// back exactly as they appear in the file.
func decodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if rest := bytes.TrimSpace(data[dec.InputOffset():]); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected data after the top-level value")
	}
	return normalizeNumbers(doc), nil
}

func normalizeNumbers(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		for k, e := range v {
			v[k] = normalizeNumbers(e)
		}
		return v
	case []interface{}:
		for i, e := range v {
			v[i] = normalizeNumbers(e)
		}
		return v
	case json.Number:
		if f, ok := exactFloat(v); ok {
			return f
		}
		return v
	default:
		return v
	}
}

// exactFloat converts n when the shortest decimal form of the float64 has
// the same value as n.
func exactFloat(n json.Number) (float64, bool) {
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	want, ok := new(big.Rat).SetString(n.String())
	if !ok {
		return 0, false
	}
	got, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok || got.Cmp(want) != 0 {
		return 0, false
	}
	return f, true
}

// renderJSON encodes v compactly without HTML escaping.
func renderJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func (a *jsonAdapter) selection(doc interface{}) []interface{} {
	v, err := a.query(context.Background(), doc)
	if err != nil {
		// A plain path that does not resolve selects nothing.
		debuglog.Debugf("JSON-path query selected nothing: %v", err)
		return nil
	}
	if !a.plural {
		return []interface{}{v}
	}
	values, _ := v.([]interface{})
	return values
}
