package handlers

import (
	"errors"

	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"
	"movie-catalog/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the authenticated create/edit/delete pages.
type AdminHandler struct {
	service        services.MovieService
	logger         *logrus.Logger
	uploadsEnabled bool
}

func NewAdminHandler(service services.MovieService, uploadsEnabled bool, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		service:        service,
		logger:         logger,
		uploadsEnabled: uploadsEnabled,
	}
}

func (h *AdminHandler) List(c *fiber.Ctx) error {
	movies, err := h.service.ListMovies(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list movies")
		return err
	}

	return utils.RenderResponse(c, fiber.StatusOK, func() (string, error) {
		return views.AdminList(movies)
	})
}

func (h *AdminHandler) NewForm(c *fiber.Ctx) error {
	return utils.RenderResponse(c, fiber.StatusOK, func() (string, error) {
		return views.MovieForm(views.NewMovieForm(h.uploadsEnabled))
	})
}

func (h *AdminHandler) Create(c *fiber.Ctx) error {
	sub, err := parseSubmission(c, h.uploadsEnabled)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to parse movie form")
		return err
	}

	if _, err := h.service.CreateMovie(c.Context(), sub); err != nil {
		return h.submissionError(c, "", err)
	}

	return utils.SeeOther(c, "/admin")
}

func (h *AdminHandler) EditForm(c *fiber.Ctx) error {
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
		return views.MovieForm(views.EditMovieForm(*movie, h.uploadsEnabled))
	})
}

func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	sub, err := parseSubmission(c, h.uploadsEnabled)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to parse movie form")
		return err
	}

	if _, err := h.service.UpdateMovie(c.Context(), id, sub); err != nil {
		return h.submissionError(c, id, err)
	}

	return utils.SeeOther(c, "/admin")
}

func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.DeleteMovie(c.Context(), id); err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to delete movie")
		return err
	}

	return utils.SeeOther(c, "/admin")
}

// DeleteMethodNotAllowed rejects GET on the delete action so a prefetch or a
// pasted link cannot remove a movie.
func (h *AdminHandler) DeleteMethodNotAllowed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAllow, fiber.MethodPost)
	return utils.TextResponse(c, fiber.StatusMethodNotAllowed, "Method Not Allowed")
}

func (h *AdminHandler) submissionError(c *fiber.Ctx, id string, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidMovie):
		return utils.TextResponse(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrMovieNotFound):
		return notFoundPage(c)
	default:
		h.logger.WithError(err).WithField("id", id).Error("Failed to save movie")
		return err
	}
}
