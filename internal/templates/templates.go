// Package templates renders the source files of a generated project.
//
// Overview:
//   - Responsibility: Load embedded templates and map a VariantKey to file content
//   - Key Types: Loader, Registry, VariantKey, Params, Kind
//   - Concurrency Model: Immutable after construction; safe for concurrent use
//   - Error Semantics: ErrInvalidSelection for unknown selections, ErrNoArtifact
//     when a variant has no file of the requested kind
//   - Performance Notes: Templates are read from the embedded filesystem per render
//
// Usage:
//
//	reg := templates.NewRegistry()
//	content, err := reg.Generate(templates.KindEntry, templates.KeyFor(cfg), templates.ParamsFor(cfg))
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
)

//go:embed templates
var templateFS embed.FS

// Loader provides template loading and rendering functionality.
//
// Concurrency:
//   - Safe for concurrent use
type Loader struct {
	templateDir string
}

// NewLoader creates a new template loader over the embedded templates.
func NewLoader() *Loader {
	return &Loader{
		templateDir: "templates",
	}
}

// LoadTemplate loads a template file from the embedded filesystem.
//
// Parameters:
//   - templatePath: Path to template file relative to templates directory
//
// Returns:
//   - string: Template content
//   - error: Loading error if any
func (l *Loader) LoadTemplate(templatePath string) (string, error) {
	content, err := templateFS.ReadFile(path.Join(l.templateDir, templatePath))
	if err != nil {
		return "", fmt.Errorf("failed to load template %s: %w", templatePath, err)
	}
	return string(content), nil
}

// RenderTemplate renders a template with the provided data.
//
// Parameters:
//   - templateContent: Template content
//   - data: Template data
//
// Returns:
//   - string: Rendered content
//   - error: Rendering error if any
func (l *Loader) RenderTemplate(templateContent string, data any) (string, error) {
	funcMap := template.FuncMap{
		"ToUpper": strings.ToUpper,
		"ToLower": strings.ToLower,
	}

	tmpl, err := template.New("template").Funcs(funcMap).Option("missingkey=error").Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return result.String(), nil
}

// LoadAndRender loads a template and renders it with data.
func (l *Loader) LoadAndRender(templatePath string, data any) (string, error) {
	content, err := l.LoadTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return l.RenderTemplate(content, data)
}

// ListTemplates lists all embedded template files, relative to the template directory.
func (l *Loader) ListTemplates() ([]string, error) {
	var templates []string
	err := fs.WalkDir(templateFS, l.templateDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".tmpl") {
			templates = append(templates, strings.TrimPrefix(p, l.templateDir+"/"))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}
