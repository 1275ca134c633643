// Package renderer renders ledger reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates holds the report templates by file name.
var templates, _ = fs.Sub(templatesFS, "templates")

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"indent": func(depth int) string { return strings.Repeat("&nbsp;&nbsp;", depth) },
	"join":   strings.Join,
}

// RenderBalances renders the balances report to a markdown string.
func RenderBalances(b *Balances) string {
	partials := map[string]string{
		"balances_title": "balances_title.md",
		"balances_table": "balances_table.md",
	}
	return renderTemplate("balances", "balances.md", partials, b)
}

// RenderCheck renders the result of a ledger check to a markdown string.
func RenderCheck(c *Check) string {
	return renderTemplate("check", "check.md", nil, c)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
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
