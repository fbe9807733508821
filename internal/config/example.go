package config

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"text/template"
)

// defaultYAML contains the annotated example configuration.
//
//go:embed default.yaml
var defaultYAML string

// Example renders the example config with the per-user history database
// location filled in.
func Example() (string, error) {
	historyPath, err := DefaultHistoryPath()
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("config").Parse(defaultYAML)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"HistoryPath": filepath.ToSlash(historyPath),
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
