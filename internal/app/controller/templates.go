package controller

import (
	"embed"
	"html/template"
	"time"

	"github.com/ikkim/giftbox-backend/internal/app/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates; the router installs them with
// gin.Engine.SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("pages").Funcs(template.FuncMap{
		"str": model.StringValue,
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
	}).ParseFS(templateFS, "templates/*.html"))
}
