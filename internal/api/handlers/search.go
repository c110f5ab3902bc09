package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/veldtlabs/docvault/internal/api"
	"github.com/veldtlabs/docvault/internal/api/middleware"
	"github.com/veldtlabs/docvault/internal/service"
)

type SearchServiceInterface interface {
	Search(ctx context.Context, userID, query string, topK int) (*service.SearchResult, error)
}

type SearchHandler struct {
	svc SearchServiceInterface
}

func NewSearchHandler(svc SearchServiceInterface) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type SearchHitResponse struct {
	Content      string  `json:"content"`
	DocumentName string  `json:"document_name"`
	Owner        string  `json:"owner"`
	IsShared     bool    `json:"is_shared"`
	ChunkIndex   int     `json:"chunk_index"`
	Score        float32 `json:"score"`
	RerankScore  float32 `json:"rerank_score"`
}

type SearchResponse struct {
	Hits     []SearchHitResponse `json:"hits"`
	Degraded bool                `json:"degraded"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.TopK < 0 {
		api.Error(w, http.StatusBadRequest, "top_k must be non-negative")
		return
	}

	result, err := h.svc.Search(r.Context(), userID, req.Query, req.TopK)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := SearchResponse{
		Hits:     make([]SearchHitResponse, 0, len(result.Hits)),
		Degraded: result.Degraded,
	}
	for _, hit := range result.Hits {
		resp.Hits = append(resp.Hits, SearchHitResponse{
			Content:      hit.Content,
			DocumentName: hit.DocumentName,
			Owner:        hit.Owner,
			IsShared:     hit.IsShared,
			ChunkIndex:   hit.ChunkIndex,
			Score:        hit.Score,
			RerankScore:  hit.RerankScore,
		})
	}

	api.Success(w, http.StatusOK, resp)
}
