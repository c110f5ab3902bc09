package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/veldtlabs/docvault/internal/api"
	"github.com/veldtlabs/docvault/internal/api/middleware"
	"github.com/veldtlabs/docvault/internal/service"
)

type IngestServiceInterface interface {
	Ingest(ctx context.Context, input service.IngestInput) (*service.IngestResult, error)
}

type ImportServiceInterface interface {
	ImportObject(ctx context.Context, input service.ImportInput) (*service.IngestResult, error)
}

type DocumentServiceInterface interface {
	ListDocuments(ctx context.Context, input service.ListDocumentsInput) (*service.ListDocumentsOutput, error)
	Share(ctx context.Context, userID, documentName string, users []string) (*service.ShareResult, error)
	Delete(ctx context.Context, userID, documentName string, admin bool) (*service.DeleteResult, error)
}

type DocumentHandler struct {
	ingest    IngestServiceInterface
	importer  ImportServiceInterface
	documents DocumentServiceInterface
}

func NewDocumentHandler(ingest IngestServiceInterface, importer ImportServiceInterface, documents DocumentServiceInterface) *DocumentHandler {
	return &DocumentHandler{
		ingest:    ingest,
		importer:  importer,
		documents: documents,
	}
}

type UploadDocumentRequest struct {
	Name         string   `json:"name"`
	Content      string   `json:"content"`
	IsShared     bool     `json:"is_shared"`
	AllowedUsers []string `json:"allowed_users"`
}

type ImportDocumentRequest struct {
	Key          string   `json:"key"`
	DocumentName string   `json:"document_name"`
	IsShared     bool     `json:"is_shared"`
	AllowedUsers []string `json:"allowed_users"`
}

type ShareDocumentRequest struct {
	Users []string `json:"users"`
}

type IngestResponse struct {
	DocumentName  string `json:"document_name"`
	ChunksIndexed int    `json:"chunks_indexed"`
	ChunksFailed  int    `json:"chunks_failed"`
}

type DocumentSummaryResponse struct {
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	IsShared   bool   `json:"is_shared"`
	ChunkCount int    `json:"chunk_count"`
}

type ListDocumentsResponse struct {
	Items      []DocumentSummaryResponse `json:"items"`
	NextCursor string                    `json:"next_cursor,omitempty"`
	HasMore    bool                      `json:"has_more"`
}

type ShareResponse struct {
	DocumentName  string   `json:"document_name"`
	ChunksUpdated int      `json:"chunks_updated"`
	AllowedUsers  []string `json:"allowed_users"`
}

type DeleteResponse struct {
	DocumentName  string `json:"document_name"`
	ChunksDeleted int    `json:"chunks_deleted"`
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	result, err := h.ingest.Ingest(r.Context(), service.IngestInput{
		DocumentName: req.Name,
		Content:      req.Content,
		OwnerUserID:  userID,
		IsShared:     req.IsShared,
		AllowedUsers: req.AllowedUsers,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ingestToResponse(result))
}

func (h *DocumentHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if h.importer == nil {
		api.Error(w, http.StatusNotImplemented, "object storage is not configured")
		return
	}

	var req ImportDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Key == "" {
		api.Error(w, http.StatusBadRequest, "key is required")
		return
	}

	result, err := h.importer.ImportObject(r.Context(), service.ImportInput{
		Key:          req.Key,
		DocumentName: req.DocumentName,
		OwnerUserID:  userID,
		IsShared:     req.IsShared,
		AllowedUsers: req.AllowedUsers,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ingestToResponse(result))
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	out, err := h.documents.ListDocuments(r.Context(), service.ListDocumentsInput{
		UserID: userID,
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := ListDocumentsResponse{
		Items:      make([]DocumentSummaryResponse, 0, len(out.Items)),
		NextCursor: out.NextCursor,
		HasMore:    out.HasMore,
	}
	for _, item := range out.Items {
		resp.Items = append(resp.Items, DocumentSummaryResponse{
			Name:       item.Name,
			Owner:      item.Owner,
			IsShared:   item.IsShared,
			ChunkCount: item.ChunkCount,
		})
	}

	api.Success(w, http.StatusOK, resp)
}

func (h *DocumentHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		api.Error(w, http.StatusBadRequest, "document name is required")
		return
	}

	var req ShareDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Users) == 0 {
		api.Error(w, http.StatusBadRequest, "users is required")
		return
	}

	result, err := h.documents.Share(r.Context(), userID, name, req.Users)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ShareResponse{
		DocumentName:  result.DocumentName,
		ChunksUpdated: result.ChunksUpdated,
		AllowedUsers:  result.AllowedUsers,
	})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	name := chi.URLParam(r, "name")
	if name == "" {
		api.Error(w, http.StatusBadRequest, "document name is required")
		return
	}

	result, err := h.documents.Delete(r.Context(), userID, name, middleware.IsAdmin(r.Context()))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DeleteResponse{
		DocumentName:  result.DocumentName,
		ChunksDeleted: result.ChunksDeleted,
	})
}

func ingestToResponse(result *service.IngestResult) IngestResponse {
	return IngestResponse{
		DocumentName:  result.DocumentName,
		ChunksIndexed: result.ChunksIndexed,
		ChunksFailed:  result.ChunksFailed,
	}
}
