package service

import (
	"context"

	"github.com/veldtlabs/docvault/internal/domain"
	"github.com/veldtlabs/docvault/internal/pagination"
	"github.com/veldtlabs/docvault/internal/telemetry"
)

// DocumentService covers document-level operations over the chunk index:
// catalog listing, sharing, deletion.
type DocumentService struct {
	repo ChunkRepositoryInterface
}

func NewDocumentService(repo ChunkRepositoryInterface) *DocumentService {
	return &DocumentService{repo: repo}
}

type ListDocumentsInput struct {
	UserID string
	Cursor string
	Limit  int
}

type ListDocumentsOutput struct {
	Items      []*domain.DocumentSummary
	NextCursor string
	HasMore    bool
}

// ListDocuments pages through the documents visible to the caller,
// ordered by (name, owner). The cursor encodes the last entry seen.
func (s *DocumentService) ListDocuments(ctx context.Context, input ListDocumentsInput) (*ListDocumentsOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.ListDocuments", telemetry.SpanAttributes{
		UserID:    input.UserID,
		Operation: "list",
	})
	defer span.End()

	if input.UserID == "" {
		return nil, domain.ErrMissingUserID
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	afterName, afterOwner := "", ""
	if input.Cursor != "" {
		cursor, err := pagination.DecodeCursor(input.Cursor)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
		}
		afterName, afterOwner = cursor.LastName, cursor.LastOwner
	}

	items, err := s.repo.ListVisible(ctx, VisibilityFilter(input.UserID), afterName, afterOwner, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.Name, last.Owner)
	}

	return &ListDocumentsOutput{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
