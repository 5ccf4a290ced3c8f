// Package prompts embeds the model prompt templates.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed *.tmpl
var files embed.FS

var templates = template.Must(template.ParseFS(files, "*.tmpl"))

// Render executes the named template with data.
func Render(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("rendering prompt %s: %w", name, err)
	}
	return b.String(), nil
}

// Extraction renders the extraction prompt for one analysis kind.
func Extraction(kind, transcript string) (string, error) {
	return Render(fmt.Sprintf("extract_%s.tmpl", kind), map[string]string{
		"Transcript": transcript,
	})
}
