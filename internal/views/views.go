package views

import (
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// Load parses the embedded templates, or the ones under dir when dir is set
// so pages can be edited without rebuilding.
func Load(dir string) (*template.Template, error) {
	t := template.New("").Funcs(funcs)
	if dir != "" {
		parsed, err := t.ParseGlob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
		}
		return parsed, nil
	}
	return t.ParseFS(files, "templates/*.html")
}

// MustLoad is Load for startup code and tests.
func MustLoad(dir string) *template.Template {
	t, err := Load(dir)
	if err != nil {
		panic(err)
	}
	return t
}
