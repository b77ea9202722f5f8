package search

import (
	"os"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

// feedAdapter tests the item titles of an RSS, Atom or JSON feed file.
type feedAdapter struct {
	match  Matcher
	parser *gofeed.Parser
}

func newFeedAdapter(m Matcher, _ string, _ Options) Adapter {
	return &feedAdapter{match: m, parser: gofeed.NewParser()}
}

func (a *feedAdapter) Scan(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	feed, err := a.parser.Parse(f)
	if err != nil {
		return nil, wrapErr("parsing feed", err)
	}

	var results []Result
	for i, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if a.match.FindIndex(title) == nil {
			continue
		}
		results = append(results, Result{
			Path:    path,
			Detail:  []string{strconv.Itoa(i), title},
			Counted: true,
		})
	}
	return results, nil
}
