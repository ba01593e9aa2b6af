package httpapi

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/energy-forecast/internal/forecast"
	"github.com/i474232898/energy-forecast/internal/form"
	"github.com/i474232898/energy-forecast/internal/page"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type templateData struct {
	View              page.View
	Fields            []form.Field
	MaxForecastLength int
}

func renderPage(c *fiber.Ctx, v page.View) error {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, templateData{
		View:              v,
		Fields:            form.Fields,
		MaxForecastLength: forecast.MaxForecastLength,
	})
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
