package service

import (
	"context"

	"github.com/veldtlabs/docvault/internal/domain"
)

// ChunkHit is one retrieval candidate. Score carries the stage score
// (cosine or ts_rank; the better of the two when a chunk appears in both
// legs). RerankScore is filled in by fusion and orders the final list.
type ChunkHit struct {
	ID           string
	Content      string
	DocumentName string
	Owner        string
	IsShared     bool
	ChunkIndex   int
	Score        float32
	RerankScore  float32
}

// ChunkACL pairs a chunk id with its current allow-list, for share merges.
type ChunkACL struct {
	ID           string
	AllowedUsers []string
}

// ChunkRepositoryInterface defines chunk persistence as the services need
// it. The repository package provides the Postgres implementation.
type ChunkRepositoryInterface interface {
	// Upload upserts the batch; an existing id is overwritten in full.
	Upload(ctx context.Context, chunks []*domain.Chunk) error
	// SearchSemantic ranks visible chunks by cosine proximity to the
	// query vector.
	SearchSemantic(ctx context.Context, embedding []float32, filter AccessFilter, limit int) ([]*ChunkHit, error)
	// SearchLexical ranks visible chunks by full-text relevance.
	SearchLexical(ctx context.Context, query string, filter AccessFilter, limit int) ([]*ChunkHit, error)
	// ListVisible groups visible chunks into per-document summaries,
	// ordered by (name, owner), starting strictly after the
	// (afterName, afterOwner) tuple.
	ListVisible(ctx context.Context, filter AccessFilter, afterName, afterOwner string, limit int) ([]*domain.DocumentSummary, error)
	// ChunkACLs returns id and allow-list for every chunk of the named
	// document that passes the filter.
	ChunkACLs(ctx context.Context, documentName string, filter AccessFilter) ([]*ChunkACL, error)
	// UpdateAllowedUsers replaces one chunk's allow-list.
	UpdateAllowedUsers(ctx context.Context, id string, users []string) error
	// CountOwned counts chunks of the named document owned by owner.
	CountOwned(ctx context.Context, documentName, owner string) (int, error)
	// IDsByDocument returns every chunk id carrying the document name,
	// regardless of owner.
	IDsByDocument(ctx context.Context, documentName string) ([]string, error)
	// DeleteByIDs removes the chunks and reports how many went away.
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
}

// EmbeddingInterface generates embeddings for text.
type EmbeddingInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}
