package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/e-mault/stat-sage/internal/ledger"
)

// FileStore keeps the whole ledger in a single JSON document, in the
// stats.json layout.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ ledger.Store = (*FileStore)(nil)

// NewFileStore creates a FileStore backed by path. The file does not need
// to exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the document. A missing or empty file is an empty ledger.
func (s *FileStore) Load(ctx context.Context) (ledger.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("Stats file not found, starting empty", "path", s.path)
		return make(ledger.Ledger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return make(ledger.Ledger), nil
	}

	l := make(ledger.Ledger)
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return l, nil
}

// Save replaces the document. It writes a sibling temp file and renames it
// over the original so a crash never leaves a half-written ledger.
func (s *FileStore) Save(ctx context.Context, l ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
