// Package catalog holds the user-facing reference of search modes.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pelletier/go-toml/v2"
)

//go:embed modes.toml
var modesTOML []byte

// ModeDoc describes one search mode.
type ModeDoc struct {
	Name       string `toml:"name"`
	Summary    string `toml:"summary"`
	Expression string `toml:"expression"`
	Output     string `toml:"output"`
	Example    string `toml:"example"`
}

// Catalog is the ordered list of mode descriptions.
type Catalog struct {
	Modes []ModeDoc `toml:"mode"`
}

// Load decodes the embedded catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(modesTOML, &c); err != nil {
		return nil, fmt.Errorf("parsing modes.toml: %w", err)
	}
	return &c, nil
}

// Lookup finds a mode by its command line name.
func (c *Catalog) Lookup(name string) (ModeDoc, bool) {
	for _, m := range c.Modes {
		if m.Name == name {
			return m, true
		}
	}
	return ModeDoc{}, false
}

// Markdown renders the catalog as a markdown document.
func (c *Catalog) Markdown() string {
	var b strings.Builder
	b.WriteString("# Search modes\n")
	for _, m := range c.Modes {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n", m.Name, m.Summary)
		fmt.Fprintf(&b, "- **Expression:** %s\n", m.Expression)
		fmt.Fprintf(&b, "- **Output:** `%s`\n\n", m.Output)
		fmt.Fprintf(&b, "```sh\n%s\n```\n", m.Example)
	}
	return b.String()
}

// Render formats the catalog for the terminal, wrapped at width.
func (c *Catalog) Render(width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	return r.Render(c.Markdown())
}
