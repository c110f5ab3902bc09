package service

import (
	"context"

	"github.com/veldtlabs/docvault/internal/domain"
	"github.com/veldtlabs/docvault/internal/telemetry"
)

type ShareResult struct {
	DocumentName  string
	ChunksUpdated int
	AllowedUsers  []string
}

// Share grants users read access to every chunk of the caller's document
// by set-union over each chunk's allow-list. Only the owner's chunks are
// touched; a repeated share converges to the same stored list. Chunks
// indexed by a concurrent upload converge on that upload's list instead.
func (s *DocumentService) Share(ctx context.Context, userID, documentName string, users []string) (*ShareResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Share", telemetry.SpanAttributes{
		UserID:       userID,
		DocumentName: documentName,
		Operation:    "share",
	})
	defer span.End()

	if userID == "" {
		return nil, domain.ErrMissingUserID
	}

	acls, err := s.repo.ChunkACLs(ctx, documentName, OwnerFilter(userID))
	if err != nil {
		return nil, err
	}
	if len(acls) == 0 {
		return nil, domain.ErrDocumentNotFound
	}

	var lastMerged []string
	for _, acl := range acls {
		merged := domain.NormalizeAllowedUsers(userID, append(acl.AllowedUsers, users...))
		if err := s.repo.UpdateAllowedUsers(ctx, acl.ID, merged); err != nil {
			return nil, err
		}
		lastMerged = merged
	}

	return &ShareResult{
		DocumentName:  documentName,
		ChunksUpdated: len(acls),
		AllowedUsers:  lastMerged,
	}, nil
}
