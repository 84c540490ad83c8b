package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"movie-catalog/internal/models"
	"movie-catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MovieForm is the add/edit form body. Screenshots is a comma separated list.
type MovieForm struct {
	Title       string `form:"title"`
	Poster      string `form:"poster"`
	Review      string `form:"review"`
	Screenshots string `form:"screenshots"`
	DownloadURL string `form:"downloadUrl"`
}

func (f MovieForm) toInput() models.MovieInput {
	return models.MovieInput{
		Title:       f.Title,
		Poster:      f.Poster,
		Review:      f.Review,
		Screenshots: services.ParseScreenshots(f.Screenshots),
		DownloadURL: f.DownloadURL,
	}
}

// parseSubmission reads the form fields and, when uploads are enabled, the
// posterFile and screenshotFiles parts of a multipart body.
func parseSubmission(c *fiber.Ctx, uploadsEnabled bool) (services.MovieSubmission, error) {
	var form MovieForm
	if err := c.BodyParser(&form); err != nil {
		// %v drops fiber's 422 so a malformed body ends as a generic server error
		return services.MovieSubmission{}, fmt.Errorf("failed to parse movie form: %v", err)
	}

	sub := services.MovieSubmission{MovieInput: form.toInput()}
	if !uploadsEnabled {
		return sub, nil
	}

	multipartForm, err := c.MultipartForm()
	if err != nil {
		// plain urlencoded submissions carry no files
		return sub, nil
	}

	for _, fh := range multipartForm.File["posterFile"] {
		if fh.Size > 0 && fh.Filename != "" {
			upload := toUpload(fh)
			sub.PosterFile = &upload
			break
		}
	}
	for _, fh := range multipartForm.File["screenshotFiles"] {
		if fh.Size > 0 && fh.Filename != "" {
			sub.ScreenshotFiles = append(sub.ScreenshotFiles, toUpload(fh))
		}
	}

	return sub, nil
}

func toUpload(fh *multipart.FileHeader) services.Upload {
	return services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
