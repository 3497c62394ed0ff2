package http

import (
	"embed"
	"html/template"
)

const indexTemplate = "index.html"

//go:embed web/index.html
var webFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(webFS, "web/"+indexTemplate))
}
