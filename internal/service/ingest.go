package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/veldtlabs/docvault/internal/domain"
	"github.com/veldtlabs/docvault/internal/jobs"
	"github.com/veldtlabs/docvault/internal/telemetry"
)

// IngestService turns raw document text into embedded, access-tagged
// chunks in the index.
type IngestService struct {
	repo     ChunkRepositoryInterface
	pool     *jobs.Pool
	chunkCfg ChunkConfig
}

func NewIngestService(repo ChunkRepositoryInterface, pool *jobs.Pool, chunkCfg ChunkConfig) *IngestService {
	return &IngestService{
		repo:     repo,
		pool:     pool,
		chunkCfg: chunkCfg,
	}
}

type IngestInput struct {
	DocumentName string
	Content      string
	OwnerUserID  string
	IsShared     bool
	AllowedUsers []string
}

type IngestResult struct {
	DocumentName  string
	ChunksIndexed int
	ChunksFailed  int
}

// Ingest chunks the content, embeds every chunk through the worker pool,
// and upserts the survivors. Chunk indices are assigned before dispatch,
// so a failed slot never shifts its neighbours. Zero survivors is an
// ingestion failure.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Ingest", telemetry.SpanAttributes{
		UserID:       input.OwnerUserID,
		DocumentName: input.DocumentName,
		Operation:    "ingest",
	})
	defer span.End()

	if input.OwnerUserID == "" {
		return nil, domain.ErrMissingUserID
	}
	if strings.TrimSpace(input.DocumentName) == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document name is required")
	}

	texts, err := chunkText(input.Content, s.chunkCfg)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, domain.ErrNoExtractableText
	}

	now := time.Now().UTC()
	results := s.pool.EmbedAll(ctx, texts)

	chunks := make([]*domain.Chunk, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Printf("embedding failed for %s chunk %d: %v", input.DocumentName, r.Index, r.Err)
			telemetry.CaptureError(ctx, r.Err)
			continue
		}
		chunk, err := domain.NewChunk(
			input.DocumentName,
			input.OwnerUserID,
			r.Index,
			texts[r.Index],
			input.IsShared,
			input.AllowedUsers,
			r.Vector,
			now,
		)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid chunk record", err)
		}
		chunks = append(chunks, chunk)
	}

	if len(chunks) == 0 {
		return nil, domain.ErrNoChunksIndexed
	}

	if err := s.repo.Upload(ctx, chunks); err != nil {
		return nil, err
	}

	return &IngestResult{
		DocumentName:  input.DocumentName,
		ChunksIndexed: len(chunks),
		ChunksFailed:  failed,
	}, nil
}
