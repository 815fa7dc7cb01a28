// Package templates holds the server-rendered pages.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"percent": FormatPercent,
	"date":    FormatDate,
}

// Parse loads every page. Pages are executed by file name, e.g. "login.html".
func Parse() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}

// FormatPercent renders an attendance percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("2006-01-02")
}
