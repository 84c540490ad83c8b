package handlers

import (
	"time"

	"movie-catalog/internal/middleware"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"
	"movie-catalog/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SessionTTL is how long the auth cookie stays valid after login.
const SessionTTL = 24 * time.Hour

type AuthHandler struct {
	auth   services.AuthService
	logger *logrus.Logger
}

func NewAuthHandler(auth services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// LoginPage renders the credential form, or sends an already logged in
// operator straight to the admin listing.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if h.auth.IsLoggedIn(c.Cookies(services.AuthCookieName)) {
		return utils.SeeOther(c, "/admin")
	}

	failed := c.Query("error") != ""
	return utils.RenderResponse(c, fiber.StatusOK, func() (string, error) {
		return views.Login(failed)
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	if !h.auth.CheckCredentials(username, password) {
		h.logger.WithFields(logrus.Fields{
			"username": username,
			"ip":       c.IP(),
		}).Warn("Admin login failed")
		return utils.SeeOther(c, middleware.LoginPath+"?error=1")
	}

	c.Cookie(&fiber.Cookie{
		Name:     services.AuthCookieName,
		Value:    h.auth.SessionToken(),
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		Expires:  time.Now().Add(SessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	h.logger.WithField("ip", c.IP()).Info("Admin logged in")
	return utils.SeeOther(c, "/admin")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     services.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.SeeOther(c, middleware.LoginPath)
}
