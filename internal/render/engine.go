package render

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"text/template"
)

// Engine renders templates with strict variable resolution: a reference to
// a name missing from the bindings fails instead of substituting a blank.
// A blank-substituted secret would still be a syntactically valid artifact,
// which is exactly the failure mode this guards against.
type Engine struct {
	templates map[string]*template.Template
}

func NewEngine() *Engine {
	return &Engine{
		templates: make(map[string]*template.Template),
	}
}

// Load parses a template file and registers it under the given name.
func (e *Engine) Load(name, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loading template %s from %s: %w", name, path, err)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(source))
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", name, err)
	}

	e.templates[name] = tmpl
	return nil
}

// Render executes a registered template against the bindings.
func (e *Engine) Render(name string, bindings map[string]any) (string, error) {
	tmpl, exists := e.templates[name]
	if !exists {
		return "", fmt.Errorf("template %s not registered", name)
	}
	return execute(name, tmpl, bindings)
}

// RenderString parses and executes a one-off template source, used for
// inline template fragments embedded in larger documents. The name is only
// used for error reporting.
func (e *Engine) RenderString(name, source string, bindings map[string]any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return "", fmt.Errorf("parsing inline template in %s: %w", name, err)
	}
	return execute(name, tmpl, bindings)
}

var missingKeyPattern = regexp.MustCompile(`map has no entry for key "([^"]+)"`)

func execute(name string, tmpl *template.Template, bindings map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, bindings); err != nil {
		if match := missingKeyPattern.FindStringSubmatch(err.Error()); match != nil {
			return "", &UndefinedVariableError{Template: name, Key: match[1], Err: err}
		}
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}

// UndefinedVariableError reports a template referencing a name absent from
// the bindings. This indicates a template/code mismatch rather than an
// operator mistake.
type UndefinedVariableError struct {
	Template string
	Key      string
	Err      error
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("template %s references undefined variable %q", e.Template, e.Key)
}

func (e *UndefinedVariableError) Unwrap() error {
	return e.Err
}
