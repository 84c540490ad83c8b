package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrMovieNotFound = repository.ErrMovieNotFound
	ErrInvalidMovie  = errors.New("invalid movie")
)

// Upload is a file attached to an admin form submission.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// MovieSubmission is the result of parsing an add or edit form.
type MovieSubmission struct {
	models.MovieInput
	PosterFile      *Upload
	ScreenshotFiles []Upload
}

type MovieService interface {
	ListMovies(ctx context.Context) ([]models.Movie, error)
	GetMovieByID(ctx context.Context, id string) (*models.Movie, error)
	CreateMovie(ctx context.Context, sub MovieSubmission) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id string, sub MovieSubmission) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
}

type movieService struct {
	repo   repository.MovieRepository
	assets AssetStore
	logger *logrus.Logger
	now    func() time.Time
	newID  func() string
}

// NewMovieService builds the catalog service. assets may be nil when object
// storage is not configured; file uploads are then ignored.
func NewMovieService(repo repository.MovieRepository, assets AssetStore, logger *logrus.Logger) MovieService {
	return &movieService{
		repo:   repo,
		assets: assets,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

// ParseScreenshots splits a list of screenshot URLs. Input with line breaks
// is read one URL per line, so URLs containing commas survive an edit
// round trip; single-line input is split on commas.
func ParseScreenshots(raw string) []string {
	sep := func(r rune) bool { return r == ',' }
	if strings.ContainsAny(raw, "\n\r") {
		sep = func(r rune) bool { return r == '\n' || r == '\r' }
	}

	fields := strings.FieldsFunc(raw, sep)
	screenshots := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			screenshots = append(screenshots, f)
		}
	}
	return screenshots
}

func (s *movieService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	movies, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// newest first; equal timestamps fall back to reversed store order
	for i, j := 0, len(movies)-1; i < j; i, j = i+1, j-1 {
		movies[i], movies[j] = movies[j], movies[i]
	}
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].CreatedAt.After(movies[j].CreatedAt)
	})
	return movies, nil
}

func (s *movieService) GetMovieByID(ctx context.Context, id string) (*models.Movie, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *movieService) CreateMovie(ctx context.Context, sub MovieSubmission) (*models.Movie, error) {
	input, uploaded, err := s.prepare(ctx, sub)
	if err != nil {
		return nil, err
	}

	now := s.now()
	movie := &models.Movie{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(movie)

	if err := s.repo.Upsert(ctx, movie); err != nil {
		s.removeAssets(ctx, uploaded)
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":    movie.ID,
		"title": movie.Title,
	}).Info("Movie created")

	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, id string, sub MovieSubmission) (*models.Movie, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input, uploaded, err := s.prepare(ctx, sub)
	if err != nil {
		return nil, err
	}

	updated := &models.Movie{
		ID:        existing.ID,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.now(),
	}
	input.Apply(updated)

	if err := s.repo.Upsert(ctx, updated); err != nil {
		s.removeAssets(ctx, uploaded)
		return nil, fmt.Errorf("failed to update movie %s: %w", id, err)
	}

	s.removeAssets(ctx, droppedAssets(existing, updated))

	s.logger.WithFields(logrus.Fields{
		"id":    updated.ID,
		"title": updated.Title,
	}).Info("Movie updated")

	return updated, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete movie %s: %w", id, err)
	}

	s.removeAssets(ctx, append([]string{existing.Poster}, existing.Screenshots...))

	s.logger.WithField("id", id).Info("Movie deleted")
	return nil
}

// prepare validates the submission and uploads any attached files. It returns
// the URLs it uploaded; on error nothing it uploaded is left behind.
func (s *movieService) prepare(ctx context.Context, sub MovieSubmission) (models.MovieInput, []string, error) {
	input := sub.MovieInput
	input.Title = strings.TrimSpace(input.Title)
	input.Poster = strings.TrimSpace(input.Poster)
	input.DownloadURL = strings.TrimSpace(input.DownloadURL)

	if input.Title == "" {
		return input, nil, fmt.Errorf("%w: title is required", ErrInvalidMovie)
	}

	if s.assets == nil {
		if sub.PosterFile != nil || len(sub.ScreenshotFiles) > 0 {
			s.logger.Debug("Object storage disabled, ignoring uploaded files")
		}
		return input, nil, nil
	}

	var uploaded []string
	if sub.PosterFile != nil {
		url, err := s.upload(ctx, *sub.PosterFile)
		if err != nil {
			return input, nil, err
		}
		input.Poster = url
		uploaded = append(uploaded, url)
	}

	for _, f := range sub.ScreenshotFiles {
		url, err := s.upload(ctx, f)
		if err != nil {
			s.removeAssets(ctx, uploaded)
			return input, nil, err
		}
		input.Screenshots = append(input.Screenshots, url)
		uploaded = append(uploaded, url)
	}

	return input, uploaded, nil
}

func (s *movieService) upload(ctx context.Context, f Upload) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Filename, err)
	}
	defer r.Close()

	return s.assets.Upload(ctx, f.Filename, f.ContentType, r, f.Size)
}

func (s *movieService) removeAssets(ctx context.Context, urls []string) {
	if s.assets == nil {
		return
	}
	for _, url := range urls {
		if url == "" || !s.assets.Owns(url) {
			continue
		}
		if err := s.assets.Delete(ctx, url); err != nil {
			s.logger.WithError(err).WithField("url", url).Warn("Failed to delete asset from object storage")
		}
	}
}

// droppedAssets lists the poster and screenshot URLs of before that after no longer references.
func droppedAssets(before, after *models.Movie) []string {
	kept := make(map[string]bool, len(after.Screenshots)+1)
	kept[after.Poster] = true
	for _, u := range after.Screenshots {
		kept[u] = true
	}

	var dropped []string
	for _, u := range append([]string{before.Poster}, before.Screenshots...) {
		if u != "" && !kept[u] {
			dropped = append(dropped, u)
		}
	}
	return dropped
}
