// Package storage persists uploaded images on local disk or an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aromakopi/pos-backend/internal/config"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// SaveOptions controls where a file lands. Category groups files into a
// folder and Extension is the file extension without the leading dot.
type SaveOptions struct {
	Category  string
	Extension string
	BaseName  string
}

// Storage saves bytes and returns the key they were stored under.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// NewStorage picks the backend named by STORAGE_TYPE.
func NewStorage(cfg *config.Config) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageType)) {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// PublicURL joins the configured public base with a stored key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
