// Package repository implements the opaque-by-id persistence for
// PublishingDocuments and topic universes: one JSON file per entity, laid
// out under a configured directory, generalized from a single workflow
// checkpoint concern into a general key-value store the pipeline
// orchestrator and CLI share.
package repository

import (
	"context"

	"github.com/wikiforge/wikiforge/internal/document"
)

// DocumentRepository is the opaque document store: save(doc),
// load(id) -> doc?, delete(id) -> bool, list -> [id].
type DocumentRepository interface {
	Save(ctx context.Context, doc *document.PublishingDocument) error
	Load(ctx context.Context, id string) (*document.PublishingDocument, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// TopicUniverse is the minimal opaque entity the repository persists for a
// topic-universe builder: it groups a set of topics a curator intends to
// publish as a coherent set of wiki pages.
type TopicUniverse struct {
	ID string `json:"id"`
	Name string `json:"name"`
	Topics []string `json:"topics"`
}

// UniverseRepository is the equivalent opaque store for TopicUniverses.
type UniverseRepository interface {
	Save(ctx context.Context, u *TopicUniverse) error
	Load(ctx context.Context, id string) (*TopicUniverse, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// ErrNotFound is returned by Load when no entity exists for the given id.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "repository: not found" }
