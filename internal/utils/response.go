package utils

import "github.com/gofiber/fiber/v2"

// HTMLResponse sends a rendered page
func HTMLResponse(c *fiber.Ctx, code int, body string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(code).SendString(body)
}

// RenderResponse renders a page and sends it, failing the request if rendering fails
func RenderResponse(c *fiber.Ctx, code int, render func() (string, error)) error {
	body, err := render()
	if err != nil {
		return err
	}
	return HTMLResponse(c, code, body)
}

// TextResponse sends a plain-text response
func TextResponse(c *fiber.Ctx, code int, message string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(message)
}

// SeeOther redirects with 303 so the browser follows up with a GET
func SeeOther(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}
