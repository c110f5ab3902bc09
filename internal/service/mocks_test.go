package service

import (
	"bytes"
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/veldtlabs/docvault/internal/domain"
)

// MockChunkRepository is a mock implementation of ChunkRepositoryInterface
type MockChunkRepository struct {
	mock.Mock
}

func (m *MockChunkRepository) Upload(ctx context.Context, chunks []*domain.Chunk) error {
	args := m.Called(ctx, chunks)
	return args.Error(0)
}

func (m *MockChunkRepository) SearchSemantic(ctx context.Context, embedding []float32, filter AccessFilter, limit int) ([]*ChunkHit, error) {
	args := m.Called(ctx, embedding, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ChunkHit), args.Error(1)
}

func (m *MockChunkRepository) SearchLexical(ctx context.Context, query string, filter AccessFilter, limit int) ([]*ChunkHit, error) {
	args := m.Called(ctx, query, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ChunkHit), args.Error(1)
}

func (m *MockChunkRepository) ListVisible(ctx context.Context, filter AccessFilter, afterName, afterOwner string, limit int) ([]*domain.DocumentSummary, error) {
	args := m.Called(ctx, filter, afterName, afterOwner, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DocumentSummary), args.Error(1)
}

func (m *MockChunkRepository) ChunkACLs(ctx context.Context, documentName string, filter AccessFilter) ([]*ChunkACL, error) {
	args := m.Called(ctx, documentName, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ChunkACL), args.Error(1)
}

func (m *MockChunkRepository) UpdateAllowedUsers(ctx context.Context, id string, users []string) error {
	args := m.Called(ctx, id, users)
	return args.Error(0)
}

func (m *MockChunkRepository) CountOwned(ctx context.Context, documentName, owner string) (int, error) {
	args := m.Called(ctx, documentName, owner)
	return args.Int(0), args.Error(1)
}

func (m *MockChunkRepository) IDsByDocument(ctx context.Context, documentName string) ([]string, error) {
	args := m.Called(ctx, documentName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChunkRepository) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

// MockEmbedder is a mock implementation of EmbeddingInterface
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockObjectStore is a mock implementation of ObjectStoreInterface
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return io.NopCloser(bytes.NewReader(args.Get(0).([]byte))), args.Error(1)
}
