// Package dashboard renders per-bag comparison logs into a static HTML page.
package dashboard

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Outcome classifies the content of one log file.
type Outcome int

const (
	OutcomeError Outcome = iota
	OutcomeMatch
	OutcomeDiffer
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeDiffer:
		return "differ"
	default:
		return "error"
	}
}

const (
	matchText  = "Manifests match!"
	differText = "Manifests differ!"
)

// Classify decides the outcome of a log from its content.
func Classify(output string) Outcome {
	switch {
	case strings.TrimSpace(output) == matchText:
		return OutcomeMatch
	case strings.Contains(output, differText):
		return OutcomeDiffer
	default:
		return OutcomeError
	}
}

// Entry is one log file on the dashboard.
type Entry struct {
	Name    string
	Output  string
	Outcome Outcome
}

// Collect reads every regular file in dir, in name order. Entry names drop
// every ".log" in the file name.
func Collect(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list log directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if !f.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("read log %s: %w", f.Name(), err)
		}
		output := string(data)
		entries = append(entries, Entry{
			Name:    strings.ReplaceAll(f.Name(), ".log", ""),
			Output:  output,
			Outcome: Classify(output),
		})
	}
	return entries, nil
}

type pageData struct {
	Entries     []Entry
	MatchCount  int
	DifferCount int
	ErrorCount  int
}

// Render writes the dashboard page for entries.
func Render(w io.Writer, entries []Entry) error {
	data := pageData{Entries: entries}
	for _, e := range entries {
		switch e.Outcome {
		case OutcomeMatch:
			data.MatchCount++
		case OutcomeDiffer:
			data.DifferCount++
		default:
			data.ErrorCount++
		}
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}

var page = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"isMatch":  func(o Outcome) bool { return o == OutcomeMatch },
	"isDiffer": func(o Outcome) bool { return o == OutcomeDiffer },
}).Parse(htmlTemplate))

const htmlTemplate = `<html>
<head>
<link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/4.2.1/css/bootstrap.min.css" integrity="sha384-GJzZqFGwb1QTTN6wy59ffF1BuGJpLSa9DkKMp0DgiMDm4iYMj70gZWKYbI706tWS" crossorigin="anonymous">
<style>
.alert {
    margin-top: 1em;
    width: 100%
}

.container {
    max-width: 100%;
}

pre {
    white-space: pre-wrap;
    word-wrap: break-word;
}
</style>
</head>

<body>
<div class="container">
<p>{{.MatchCount}} matched, {{.DifferCount}} differ, {{.ErrorCount}} errored</p>
{{- range .Entries}}
{{- if isMatch .Outcome}}
<div class="alert alert-success" role="alert">
  {{.Name}}
</div>
{{- else if isDiffer .Outcome}}
<div class="alert alert-warning" style="max-width: 18rem;">
  {{.Name}}
</div>
<pre><code>{{.Output}}</code></pre>
{{- else}}
<div class="alert alert-danger" style="max-width: 18rem;">
  {{.Name}}
</div>
<pre><code>{{.Output}}</code></pre>
{{- end}}
{{- end}}
</div>
</body>
</html>
`
