package service

import (
	"context"

	"github.com/veldtlabs/docvault/internal/domain"
	"github.com/veldtlabs/docvault/internal/telemetry"
)

type DeleteResult struct {
	DocumentName  string
	ChunksDeleted int
}

// Delete removes every chunk carrying the document name. The ownership
// probe runs first: a non-admin who owns nothing under the name is denied
// before the index reveals whether the document exists at all. The
// cascade itself goes by name alone, so it also sweeps same-named chunks
// with other owners.
func (s *DocumentService) Delete(ctx context.Context, userID, documentName string, admin bool) (*DeleteResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Delete", telemetry.SpanAttributes{
		UserID:       userID,
		DocumentName: documentName,
		Operation:    "delete",
	})
	defer span.End()

	if userID == "" {
		return nil, domain.ErrMissingUserID
	}

	owned, err := s.repo.CountOwned(ctx, documentName, userID)
	if err != nil {
		return nil, err
	}
	if owned == 0 && !admin {
		return nil, domain.ErrPermissionDenied
	}

	ids, err := s.repo.IDsByDocument(ctx, documentName)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrDocumentNotFound
	}

	deleted, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &DeleteResult{
		DocumentName:  documentName,
		ChunksDeleted: deleted,
	}, nil
}
