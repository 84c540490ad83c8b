package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"movie-catalog/internal/models"
)

// ErrMovieNotFound signals an absent movie; callers map it to a 404.
var ErrMovieNotFound = errors.New("movie not found")

type MovieRepository interface {
	ListAll(ctx context.Context) ([]models.Movie, error)
	GetByID(ctx context.Context, id string) (*models.Movie, error)
	Upsert(ctx context.Context, movie *models.Movie) error
	DeleteByID(ctx context.Context, id string) error
}

type movieRepository struct {
	store     KVStore
	namespace string
}

func NewMovieRepository(store KVStore, namespace string) MovieRepository {
	return &movieRepository{
		store:     store,
		namespace: namespace,
	}
}

func (r *movieRepository) ListAll(ctx context.Context) ([]models.Movie, error) {
	pairs, err := r.store.Scan(ctx, r.namespace)
	if err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(pairs))
	for _, p := range pairs {
		var movie models.Movie
		if err := json.Unmarshal(p.Value, &movie); err != nil {
			return nil, fmt.Errorf("failed to decode movie %s: %w", p.Key, err)
		}
		movies = append(movies, movie)
	}
	return movies, nil
}

func (r *movieRepository) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	value, err := r.store.Get(ctx, r.namespace, id)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	var movie models.Movie
	if err := json.Unmarshal(value, &movie); err != nil {
		return nil, fmt.Errorf("failed to decode movie %s: %w", id, err)
	}
	return &movie, nil
}

func (r *movieRepository) Upsert(ctx context.Context, movie *models.Movie) error {
	if movie.ID == "" {
		return errors.New("movie id is required")
	}

	value, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("failed to encode movie %s: %w", movie.ID, err)
	}
	return r.store.Set(ctx, r.namespace, movie.ID, value)
}

func (r *movieRepository) DeleteByID(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.namespace, id)
}
