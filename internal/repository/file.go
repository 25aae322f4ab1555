package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wikiforge/wikiforge/internal/document"
)

// FileDocumentRepository persists each PublishingDocument as one
// "<id>.json" file under Directory -- the "one file per document"
// layout. A mutex serializes access since a single repository value may be
// shared across goroutines even though each document has its own
// coordinator.
type FileDocumentRepository struct {
	Directory string
	mu sync.Mutex
}

// NewFileDocumentRepository builds a FileDocumentRepository rooted at dir,
// creating it if necessary.
func NewFileDocumentRepository(dir string) (*FileDocumentRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repository: creating directory %q: %w", dir, err)
	}
	return &FileDocumentRepository{Directory: dir}, nil
}

var _ DocumentRepository = (*FileDocumentRepository)(nil)

func (r *FileDocumentRepository) path(id string) string {
	return filepath.Join(r.Directory, id+".json")
}

// Save round-trips doc to disk as indented JSON. Round-trip fidelity
// (load(save(d)) = d) follows directly from every document field being
// exported with a json tag.
func (r *FileDocumentRepository) Save(ctx context.Context, doc *document.PublishingDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return fmt.Errorf("repository: marshaling document %q: %w", doc.ID, err)
	}
	if err := os.WriteFile(r.path(doc.ID), data, 0o644); err != nil {
		return fmt.Errorf("repository: writing document %q: %w", doc.ID, err)
	}
	return nil
}

func (r *FileDocumentRepository) Load(ctx context.Context, id string) (*document.PublishingDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: reading document %q: %w", id, err)
	}
	var doc document.PublishingDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("repository: unmarshaling document %q: %w", id, err)
	}
	return &doc, nil
}

func (r *FileDocumentRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("repository: deleting document %q: %w", id, err)
	}
	return true, nil
}

func (r *FileDocumentRepository) List(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.Directory)
	if err != nil {
		return nil, fmt.Errorf("repository: reading directory %q: %w", r.Directory, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

// FileUniverseRepository is FileDocumentRepository's counterpart for
// TopicUniverses, sharing the same one-file-per-entity layout.
type FileUniverseRepository struct {
	Directory string
	mu sync.Mutex
}

func NewFileUniverseRepository(dir string) (*FileUniverseRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repository: creating directory %q: %w", dir, err)
	}
	return &FileUniverseRepository{Directory: dir}, nil
}

var _ UniverseRepository = (*FileUniverseRepository)(nil)

func (r *FileUniverseRepository) path(id string) string {
	return filepath.Join(r.Directory, id+".json")
}

func (r *FileUniverseRepository) Save(ctx context.Context, u *TopicUniverse) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(u, "", " ")
	if err != nil {
		return fmt.Errorf("repository: marshaling universe %q: %w", u.ID, err)
	}
	if err := os.WriteFile(r.path(u.ID), data, 0o644); err != nil {
		return fmt.Errorf("repository: writing universe %q: %w", u.ID, err)
	}
	return nil
}

func (r *FileUniverseRepository) Load(ctx context.Context, id string) (*TopicUniverse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: reading universe %q: %w", id, err)
	}
	var u TopicUniverse
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("repository: unmarshaling universe %q: %w", id, err)
	}
	return &u, nil
}

func (r *FileUniverseRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("repository: deleting universe %q: %w", id, err)
	}
	return true, nil
}

func (r *FileUniverseRepository) List(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.Directory)
	if err != nil {
		return nil, fmt.Errorf("repository: reading directory %q: %w", r.Directory, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}
