package web

import (
	"embed"         // Embedded template files
	"html/template" // HTML templates
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates. Each page is registered
// under its file name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"yesno": func(b bool) string { // Render an amenity flag
			if b {
				return "Yes"
			}
			return "No"
		},
		"deref": func(s *string) string { // Render an optional text column
			if s == nil {
				return ""
			}
			return *s
		},
	}).ParseFS(templatesFS, "templates/*.html")
}
