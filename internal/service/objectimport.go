package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/veldtlabs/docvault/internal/domain"
	"github.com/veldtlabs/docvault/internal/extract"
	"github.com/veldtlabs/docvault/internal/telemetry"
)

// ObjectStoreInterface is the slice of the blob store the import path
// needs. The storage package provides the S3 implementation.
type ObjectStoreInterface interface {
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}

// ImportService ingests documents straight from the object store: the
// object is spooled to a temp file, text is extracted by file extension,
// and the result goes through the regular ingest path.
type ImportService struct {
	store     ObjectStoreInterface
	extractor *extract.Registry
	ingest    *IngestService
}

func NewImportService(store ObjectStoreInterface, extractor *extract.Registry, ingest *IngestService) *ImportService {
	return &ImportService{
		store:     store,
		extractor: extractor,
		ingest:    ingest,
	}
}

type ImportInput struct {
	Key          string
	DocumentName string
	OwnerUserID  string
	IsShared     bool
	AllowedUsers []string
}

// ImportObject downloads the object at Key and indexes it. DocumentName
// defaults to the object's base name. The temp file is removed on every
// exit path.
func (s *ImportService) ImportObject(ctx context.Context, input ImportInput) (*IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ImportService.ImportObject", telemetry.SpanAttributes{
		UserID:       input.OwnerUserID,
		DocumentName: input.DocumentName,
		Operation:    "import",
	})
	defer span.End()

	if input.OwnerUserID == "" {
		return nil, domain.ErrMissingUserID
	}
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "object key is required")
	}

	documentName := input.DocumentName
	if documentName == "" {
		documentName = filepath.Base(key)
	}

	ext := filepath.Ext(key)
	if !s.extractor.Supports(ext) {
		return nil, domain.ErrUnsupportedFileType
	}

	body, err := s.store.GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "docvault-import-*"+ext)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to spool object", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to spool object", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to spool object", err)
	}

	content, err := s.extractor.ExtractFile(tmpPath)
	if err != nil {
		return nil, err
	}

	return s.ingest.Ingest(ctx, IngestInput{
		DocumentName: documentName,
		Content:      content,
		OwnerUserID:  input.OwnerUserID,
		IsShared:     input.IsShared,
		AllowedUsers: input.AllowedUsers,
	})
}
