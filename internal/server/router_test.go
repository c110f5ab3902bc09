package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/veldtlabs/docvault/internal/api/handlers"
	"github.com/veldtlabs/docvault/internal/service"
)

type stubSearchService struct {
	mock.Mock
}

func (m *stubSearchService) Search(ctx context.Context, userID, query string, topK int) (*service.SearchResult, error) {
	args := m.Called(ctx, userID, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResult), args.Error(1)
}

type stubIngestService struct {
	mock.Mock
}

func (m *stubIngestService) Ingest(ctx context.Context, input service.IngestInput) (*service.IngestResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

type stubDocumentService struct {
	mock.Mock
}

func (m *stubDocumentService) ListDocuments(ctx context.Context, input service.ListDocumentsInput) (*service.ListDocumentsOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListDocumentsOutput), args.Error(1)
}

func (m *stubDocumentService) Share(ctx context.Context, userID, documentName string, users []string) (*service.ShareResult, error) {
	args := m.Called(ctx, userID, documentName, users)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShareResult), args.Error(1)
}

func (m *stubDocumentService) Delete(ctx context.Context, userID, documentName string, admin bool) (*service.DeleteResult, error) {
	args := m.Called(ctx, userID, documentName, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteResult), args.Error(1)
}

func newTestRouter(search *stubSearchService, ingest *stubIngestService, documents *stubDocumentService) http.Handler {
	return NewRouter(RouterConfig{
		DocumentHandler: handlers.NewDocumentHandler(ingest, nil, documents),
		SearchHandler:   handlers.NewSearchHandler(search),
	})
}

func TestHealthEndpointIsPublic(t *testing.T) {
	router := newTestRouter(new(stubSearchService), new(stubIngestService), new(stubDocumentService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchRejectedWithoutAuth(t *testing.T) {
	search := new(stubSearchService)
	router := newTestRouter(search, new(stubIngestService), new(stubDocumentService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	search.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchRoutedWithBearerUser(t *testing.T) {
	search := new(stubSearchService)
	router := newTestRouter(search, new(stubIngestService), new(stubDocumentService))

	search.On("Search", mock.Anything, "bob", "budget", 5).
		Return(&service.SearchResult{Hits: []*service.ChunkHit{}}, nil)

	body, _ := json.Marshal(handlers.SearchRequest{Query: "budget", TopK: 5})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer bob")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	search.AssertExpectations(t)
}

func TestDeleteRouteCarriesDocumentName(t *testing.T) {
	documents := new(stubDocumentService)
	router := newTestRouter(new(stubSearchService), new(stubIngestService), documents)

	documents.On("Delete", mock.Anything, "bob", "plan.txt", false).
		Return(&service.DeleteResult{DocumentName: "plan.txt", ChunksDeleted: 1}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/documents/plan.txt", nil)
	req.Header.Set("Authorization", "Bearer bob")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	documents.AssertExpectations(t)
}

func TestDeleteRouteMarksAdminWithToken(t *testing.T) {
	documents := new(stubDocumentService)
	router := NewRouter(RouterConfig{
		AdminToken:      "sekrit",
		DocumentHandler: handlers.NewDocumentHandler(new(stubIngestService), nil, documents),
		SearchHandler:   handlers.NewSearchHandler(new(stubSearchService)),
	})

	documents.On("Delete", mock.Anything, "ops", "plan.txt", true).
		Return(&service.DeleteResult{DocumentName: "plan.txt", ChunksDeleted: 1}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/documents/plan.txt", nil)
	req.Header.Set("Authorization", "Bearer ops")
	req.Header.Set("X-Admin-Token", "sekrit")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	documents.AssertExpectations(t)
}

func TestRequestIDHeaderSet(t *testing.T) {
	router := newTestRouter(new(stubSearchService), new(stubIngestService), new(stubDocumentService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
