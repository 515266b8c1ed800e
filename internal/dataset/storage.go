// Package dataset provides the keyed blob store for uploaded workbooks.
// Workbooks are immutable per name except for explicit deletion; a delete
// racing a concurrent read may surface as not-found or a stale read
// depending on timing, which is an accepted limitation.
package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"churnboard/internal/errors"
)

// WorkbookStore implements workbook blob storage on the local filesystem,
// keyed by the workbook's given name.
type WorkbookStore struct {
	baseDir string
}

// NewWorkbookStore creates a store rooted at baseDir, creating the
// directory if needed.
func NewWorkbookStore(baseDir string) (*WorkbookStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &WorkbookStore{baseDir: baseDir}, nil
}

// Store saves an uploaded workbook under its given name, overwriting any
// previous workbook of the same name.
func (s *WorkbookStore) Store(ctx context.Context, src io.Reader, name string) (int64, error) {
	dst, err := os.Create(s.Path(name))
	if err != nil {
		return 0, fmt.Errorf("failed to create workbook file: %w", err)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return 0, fmt.Errorf("failed to write workbook contents: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return 0, fmt.Errorf("failed to finish workbook file: %w", err)
	}
	return n, nil
}

// List returns the stored workbook names in lexical order.
func (s *WorkbookStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes one workbook. A missing workbook is a NotFound error.
func (s *WorkbookStore) Delete(ctx context.Context, name string) error {
	path := s.Path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.NotFound(fmt.Sprintf("file %q", name))
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete workbook: %w", err)
	}
	return nil
}

// Exists reports whether a workbook is stored under the given name.
func (s *WorkbookStore) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Path returns the filesystem path for a workbook name. The name is
// flattened to its base component so uploads cannot escape the store.
func (s *WorkbookStore) Path(name string) string {
	return filepath.Join(s.baseDir, filepath.Base(name))
}
