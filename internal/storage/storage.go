// Package storage saves and serves uploaded photos through an object store.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"path"
	"strings"
)

// ObjectStorage defines the object operations the photo store needs. The
// MinIO client implements it; tests can substitute an in-memory fake.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Default photo keys returned when an upload carries no file, so every
// person and ad always references a renderable image.
const (
	DefaultPersonPhoto = "defaults/person.png"
	DefaultAdPhoto     = "defaults/ad.png"
)

// ErrBadPhotoName rejects keys that could escape the photo namespace.
var ErrBadPhotoName = errors.New("bad photo name")

// PhotoStore generates stable object keys for uploaded photos and persists
// them in the configured bucket. The stored key, not a URL, is what ends up
// on the Person/Ad row.
type PhotoStore struct {
	backend ObjectStorage
}

// NewPhotoStore constructs a PhotoStore over the provided backend.
func NewPhotoStore(backend ObjectStorage) *PhotoStore {
	return &PhotoStore{backend: backend}
}

// EnsureBucket makes sure the photo bucket exists; called once at startup.
func (s *PhotoStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// SavePersonPhoto stores a profile photo and returns its generated key.
// A nil reader yields the default person photo without touching storage.
func (s *PhotoStore) SavePersonPhoto(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	if r == nil {
		return DefaultPersonPhoto, nil
	}
	return s.save(ctx, "people", r, size, contentType)
}

// SaveAdPhoto stores an ad photo and returns its generated key. A nil
// reader yields the default ad photo.
func (s *PhotoStore) SaveAdPhoto(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	if r == nil {
		return DefaultAdPhoto, nil
	}
	return s.save(ctx, "ads", r, size, contentType)
}

func (s *PhotoStore) save(ctx context.Context, prefix string, r io.Reader, size int64, contentType string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	key := prefix + "/" + hex.EncodeToString(buf) + extFor(contentType)
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Open returns a reader for a stored photo. Keys are validated against
// path traversal before hitting the backend.
func (s *PhotoStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if !ValidKey(key) {
		return nil, ErrBadPhotoName
	}
	return s.backend.Get(ctx, key)
}

// Remove deletes a stored photo. Default photos are never removed.
func (s *PhotoStore) Remove(ctx context.Context, key string) error {
	if key == "" || key == DefaultPersonPhoto || key == DefaultAdPhoto {
		return nil
	}
	if !ValidKey(key) {
		return ErrBadPhotoName
	}
	return s.backend.Delete(ctx, key)
}

// ValidKey accepts only keys inside the known photo prefixes with no
// traversal segments.
func ValidKey(key string) bool {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return false
	}
	switch {
	case strings.HasPrefix(key, "people/"), strings.HasPrefix(key, "ads/"), strings.HasPrefix(key, "defaults/"):
		return path.Clean(key) == key
	}
	return false
}

// ContentTypeFor maps a stored key back to a content type for serving.
func ContentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
