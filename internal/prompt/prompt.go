package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/varsilias/portfolio-relay/internal/profile"
)

//go:embed system.tmpl
var defaultTemplate string

var funcs = template.FuncMap{
	"join":    strings.Join,
	"article": article,
	"plain":   plain,
}

// Render executes the system prompt template against p. An empty path
// selects the built-in template. The result is computed once at startup
// and shared read-only by every request.
func Render(path string, p *profile.Profile) (string, error) {
	src := defaultTemplate
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read prompt template: %w", err)
		}
		src = string(b)
	}

	tpl, err := template.New("system").Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}

	var sb strings.Builder
	if err := tpl.Execute(&sb, p); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

func article(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch strings.ToLower(s[:1]) {
	case "a", "e", "i", "o", "u":
		return "an"
	}
	return "a"
}

// plain drops emphasis markers from profile copy so the prompt itself never
// demonstrates the formatting it asks the model to avoid.
func plain(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.Join(strings.Fields(s), " ")
}
