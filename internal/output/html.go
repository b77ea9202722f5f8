package output

import (
	"html"
	"html/template"
	"strings"
)

var htmlHeader = template.Must(template.New("header").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>File Search</title>
    <style>
        body { font-family: Arial, Helvetica, sans-serif }
        table, th, td { border: 1px solid white; border-collapse: collapse; }
        th, td { background-color: #efefef; padding: 3px 10px }
    </style>
</head>
<body>
    <h1>File Search</h1>
    <h2>Parameters</h2>
    <table>
        <thead>
            <tr><th>Parameter</th><th>Value</th></tr>
        </thead>
        <tbody>
{{- range .}}
            <tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{- end}}
        </tbody>
    </table>
    <h2>Results</h2>
    <table>
        <thead>
            <tr><th>File name</th><th>Position</th><th></th></tr>
        </thead>
        <tbody>
`))

var htmlFooter = template.Must(template.New("footer").Parse(`        </tbody>
    </table>
    <h2>Stats</h2>
    <table>
        <thead>
            <tr><th>Parameter</th><th>Value</th></tr>
        </thead>
        <tbody>
            <tr><td>Hits</td><td>{{.Hits}}</td></tr>
            <tr><td>Errors</td><td>{{.Errors}}</td></tr>
        </tbody>
    </table>
</body>
</html>
`))

// HTMLSink renders a run as an HTML report: a parameter table, one results
// row per event and a closing statistics table.
type HTMLSink struct {
	file  *lockedFile
	stats Statistics
}

// NewHTMLSink opens path for this run, truncating earlier content.
func NewHTMLSink(path string) (*HTMLSink, error) {
	lf, err := openLocked(path)
	if err != nil {
		return nil, err
	}
	return &HTMLSink{file: lf}, nil
}

func (s *HTMLSink) Announce(params []Param) error {
	var b strings.Builder
	if err := htmlHeader.Execute(&b, params); err != nil {
		return wrapWrite(err)
	}
	return s.file.write(b.String())
}

// row splits msg on "::" into one cell per segment.
func row(msg string) string {
	var b strings.Builder
	b.WriteString("            <tr>")
	for _, cell := range strings.Split(msg, "::") {
		b.WriteString("<td>")
		b.WriteString(html.EscapeString(strings.TrimSpace(cell)))
		b.WriteString("</td>")
	}
	b.WriteString("</tr>\n")
	return b.String()
}

func (s *HTMLSink) Match(msg string) error {
	return s.file.write(row(msg))
}

func (s *HTMLSink) MatchCounted(msg string) error {
	if err := s.Match(msg); err != nil {
		return err
	}
	s.stats.hit()
	return nil
}

// Error renders msg in a single cell; messages may legitimately contain
// "::" inside a path.
func (s *HTMLSink) Error(msg string) error {
	s.stats.fail()
	return s.file.write(`            <tr class="error"><td colspan="3">` + html.EscapeString(msg) + "</td></tr>\n")
}

func (s *HTMLSink) Finish() error {
	var b strings.Builder
	if err := htmlFooter.Execute(&b, s.stats); err != nil {
		return wrapWrite(err)
	}
	return s.file.write(b.String())
}

func (s *HTMLSink) Stats() Statistics {
	return s.stats
}

func (s *HTMLSink) Close() error {
	return s.file.close()
}
