package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KVPair is a single entry returned by Scan.
type KVPair struct {
	Key   string
	Value []byte
}

// KVStore is the persistence backend: composite (namespace, key) addressing,
// single-key reads and writes, and a full scan of a namespace.
type KVStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Scan(ctx context.Context, namespace string) ([]KVPair, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
}

type kvRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewKVRepository(db *database.Database) KVStore {
	return &kvRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *kvRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *kvRepository) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var entry models.KVEntry
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", namespace, key, err)
	}
	return entry.Value, nil
}

func (r *kvRepository) Scan(ctx context.Context, namespace string) ([]KVPair, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var entries []models.KVEntry
	err := r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Order("created_at, entry_key").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", namespace, err)
	}

	pairs := make([]KVPair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, KVPair{Key: e.Key, Value: e.Value})
	}
	return pairs, nil
}

func (r *kvRepository) Set(ctx context.Context, namespace, key string, value []byte) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	entry := models.KVEntry{
		Namespace: namespace,
		Key:       key,
		Value:     value,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, namespace, key string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Delete(&models.KVEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", namespace, key, err)
	}
	return nil
}
