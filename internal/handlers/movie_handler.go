package handlers

import (
	"errors"

	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"
	"movie-catalog/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// MovieHandler serves the public pages.
type MovieHandler struct {
	service services.MovieService
	logger  *logrus.Logger
}

func NewMovieHandler(service services.MovieService, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

func (h *MovieHandler) Home(c *fiber.Ctx) error {
	movies, err := h.service.ListMovies(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list movies")
		return err
	}

	return utils.RenderResponse(c, fiber.StatusOK, func() (string, error) {
		return views.Home(movies)
	})
}

func (h *MovieHandler) MovieDetail(c *fiber.Ctx) error {
	id := c.Params("id")

	movie, err := h.service.GetMovieByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			return notFoundPage(c)
		}
		h.logger.WithError(err).WithField("id", id).Error("Failed to get movie")
		return err
	}

	return utils.RenderResponse(c, fiber.StatusOK, func() (string, error) {
		return views.MovieDetail(movie)
	})
}

func notFoundPage(c *fiber.Ctx) error {
	return utils.RenderResponse(c, fiber.StatusNotFound, views.NotFound)
}
