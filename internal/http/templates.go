package http

import (
	"embed"
	"html/template"
	"time"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFS embed.FS

const excerptLength = 100

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
	"excerpt": excerpt,
}

func parsePages() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= excerptLength {
		return s
	}
	return string([]rune(s)[:excerptLength]) + "..."
}
