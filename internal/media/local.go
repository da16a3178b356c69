package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// LocalBackend stores files in a directory of an afero filesystem.
type LocalBackend struct {
	fs   afero.Fs
	root string
}

// NewLocalBackend returns a backend rooted at dir on the OS filesystem.
func NewLocalBackend(dir string) *LocalBackend {
	return NewLocalBackendFS(afero.NewOsFs(), dir)
}

// NewLocalBackendFS returns a backend rooted at dir on fs.
func NewLocalBackendFS(fs afero.Fs, dir string) *LocalBackend {
	return &LocalBackend{fs: fs, root: dir}
}

// Root is the destination directory.
func (b *LocalBackend) Root() string { return b.root }

func (b *LocalBackend) path(name string) string {
	return filepath.Join(b.root, filepath.FromSlash(name))
}

func (b *LocalBackend) Exists(_ context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	ok, err := afero.Exists(b.fs, b.path(name))
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", name, err)
	}
	return ok, nil
}

func (b *LocalBackend) Put(ctx context.Context, name string, r io.Reader, _ int64) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := b.path(name)
	if err := b.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", name, err)
	}
	f, err := b.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	return nil
}

func (b *LocalBackend) Delete(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := b.fs.Remove(b.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	return nil
}

func (b *LocalBackend) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	err := afero.Walk(b.fs, b.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == b.root {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", b.root, err)
	}
	sort.Strings(names)
	return names, nil
}
