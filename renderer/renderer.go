package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderSnapshot renders the Snapshot struct to a markdown string.
func RenderSnapshot(s *Snapshot) string {
	partials := map[string]string{
		"snapshot_title":   "snapshot_title.md",
		"snapshot_metrics": "snapshot_metrics.md",
		"snapshot_missing": "snapshot_missing.md",
	}
	return renderTemplate("snapshot", "snapshot.md", partials, s)
}

// RenderLayout renders the Layout struct to a markdown string.
func RenderLayout(l *Layout) string {
	return renderTemplate("layout", "layout.md", nil, l)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
