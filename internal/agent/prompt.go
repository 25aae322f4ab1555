package agent

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// promptTemplates is parsed once; text/template.Template is safe for
// concurrent Execute calls.
var promptTemplates = template.Must(template.New("agent").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl"))

// renderPrompt executes the named embedded template ("researcher", "writer",
// "factchecker", "editor", "critic") against data.
func renderPrompt(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("agent: rendering %s prompt: %w", name, err)
	}
	return buf.String(), nil
}
