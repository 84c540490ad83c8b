package middleware

import (
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// RequireAuth lets a request through only when its auth cookie carries the
// shared secret; everything else is redirected to the login page.
func RequireAuth(auth services.AuthService, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.IsLoggedIn(c.Cookies(services.AuthCookieName)) {
			return c.Next()
		}

		logger.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Debug("Unauthenticated admin request, redirecting to login")

		return utils.SeeOther(c, LoginPath)
	}
}
