// Package web serves the embedded dashboard page: the DHW input, the update
// button, and the SVG map drawn from the regions endpoint.
package web

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed index.html
var indexHTML []byte

// RegisterRoutes mounts the dashboard page on the Fiber app.
func RegisterRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(indexHTML)
	})
}
