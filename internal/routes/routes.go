package routes

import (
	"movie-catalog/internal/handlers"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Setup registers every route in match order; the first matching route wins
// and anything left over falls through to a plain-text 404.
func Setup(app *fiber.App, movieHandler *handlers.MovieHandler, adminHandler *handlers.AdminHandler, authHandler *handlers.AuthHandler, requireAuth fiber.Handler) {
	// Public pages
	app.Get("/", movieHandler.Home)
	app.Get("/movie/:id", movieHandler.MovieDetail)

	// Session routes, reachable without the auth cookie
	app.Get("/admin/login", authHandler.LoginPage)
	app.Post("/admin/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	// Admin panel
	admin := app.Group("/admin", requireAuth)
	{
		admin.Get("/", adminHandler.List)
		admin.Get("/add", adminHandler.NewForm)
		admin.Post("/add", adminHandler.Create)
		admin.Get("/edit/:id", adminHandler.EditForm)
		admin.Post("/edit/:id", adminHandler.Update)
		admin.Post("/delete/:id", adminHandler.Delete)
		admin.Get("/delete/:id", adminHandler.DeleteMethodNotAllowed)
	}

	app.Use(func(c *fiber.Ctx) error {
		return utils.TextResponse(c, fiber.StatusNotFound, "Not Found")
	})
}
