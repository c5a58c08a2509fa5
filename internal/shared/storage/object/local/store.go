package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"resume-builder/internal/shared/storage/object"
)

const maxNameAttempts = 1000

// Store implements FileStore on the local filesystem in a single flat directory.
type Store struct {
	baseDir string
	now     func() time.Time
}

// New creates a local file store rooted at baseDir, creating the directory if needed.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir uploads: %w", err)
	}
	return &Store{baseDir: baseDir, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string {
	return s.baseDir
}

// Save writes r under a fresh <millis>-<name> key. An existing name is never
// overwritten; the timestamp is bumped until creation succeeds.
func (s *Store) Save(ctx context.Context, originalName, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	at := s.now()
	var (
		f   *os.File
		key string
	)
	for attempt := 0; ; attempt++ {
		if attempt >= maxNameAttempts {
			return "", fmt.Errorf("no free file name for %q", originalName)
		}
		key = object.NewKey(at, originalName)
		var err error
		f, err = os.OpenFile(filepath.Join(s.baseDir, key), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("open file: %w", err)
		}
		at = at.Add(time.Millisecond)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close file: %w", err)
	}
	return key, nil
}

// Delete removes the file for key. Missing files report object.ErrNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !object.ValidKey(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	if err := os.Remove(filepath.Join(s.baseDir, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return object.ErrNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Exists reports whether a file is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !object.ValidKey(key) {
		return false, nil
	}
	_, err := os.Stat(filepath.Join(s.baseDir, key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

var _ object.FileStore = (*Store)(nil)
