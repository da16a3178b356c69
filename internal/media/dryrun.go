package media

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// DryRunBackend reads through to an inner backend but never writes. Names put
// during the run are remembered so later Exists calls see them.
type DryRunBackend struct {
	inner  Backend
	logger *slog.Logger

	mu  sync.Mutex
	put map[string]bool
}

// DryRun wraps inner so that Put and Delete are logged instead of executed.
func DryRun(inner Backend, logger *slog.Logger) *DryRunBackend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DryRunBackend{inner: inner, logger: logger, put: map[string]bool{}}
}

func (b *DryRunBackend) Exists(ctx context.Context, name string) (bool, error) {
	b.mu.Lock()
	ok := b.put[name]
	b.mu.Unlock()
	if ok {
		return true, nil
	}
	return b.inner.Exists(ctx, name)
}

func (b *DryRunBackend) Put(_ context.Context, name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}
	b.mu.Lock()
	b.put[name] = true
	b.mu.Unlock()
	b.logger.Info("[dry-run] would copy media", "name", name, "bytes", size)
	return nil
}

func (b *DryRunBackend) Delete(_ context.Context, name string) error {
	b.logger.Info("[dry-run] would delete media", "name", name)
	return nil
}

func (b *DryRunBackend) List(ctx context.Context, prefix string) ([]string, error) {
	return b.inner.List(ctx, prefix)
}
