// Package media stores migrated profile photos. A Backend is the destination
// for copied files; the legacy uploads directory is read through afero.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

// ErrInvalidName is returned for object names that would escape the
// destination root.
var ErrInvalidName = errors.New("invalid object name")

// Backend is a destination for media files. Names are slash-separated and
// relative to the backend root.
type Backend interface {
	Exists(ctx context.Context, name string) (bool, error)
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	Delete(ctx context.Context, name string) error
	// List returns the names under the root that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: object name is required", ErrInvalidName)
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: must not start with /", ErrInvalidName)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return fmt.Errorf("%w: must not contain ..", ErrInvalidName)
		}
	}
	if len(name) > 1024 {
		return fmt.Errorf("%w: name too long", ErrInvalidName)
	}
	return nil
}

// contentType detects a MIME type from the name's extension.
func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
