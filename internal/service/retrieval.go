package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/veldtlabs/docvault/internal/domain"
	"github.com/veldtlabs/docvault/internal/telemetry"
)

const (
	defaultTopK            = 5
	candidateMultiplier    = 4
	minCandidates          = 20
	maxCandidates          = 200
	rrfK                   = 60
	semanticWeight float32 = 1.0
	lexicalWeight  float32 = 0.85
)

// SearchService runs access-filtered hybrid retrieval: a semantic leg and
// a lexical leg over the same visibility filter, fused by reciprocal rank.
type SearchService struct {
	repo     ChunkRepositoryInterface
	embedder EmbeddingInterface
}

func NewSearchService(repo ChunkRepositoryInterface, embedder EmbeddingInterface) *SearchService {
	return &SearchService{
		repo:     repo,
		embedder: embedder,
	}
}

type SearchResult struct {
	Hits     []*ChunkHit
	Degraded bool
}

// Search retrieves the top chunks visible to userID. When the embedding
// provider fails the semantic leg is skipped and the lexical leg alone
// serves the query, reported through Degraded.
func (s *SearchService) Search(ctx context.Context, userID, query string, topK int) (*SearchResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "search",
	})
	defer span.End()

	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{Hits: []*ChunkHit{}}, nil
	}

	candidateLimit := topK * candidateMultiplier
	if candidateLimit < minCandidates {
		candidateLimit = minCandidates
	}
	if candidateLimit > maxCandidates {
		candidateLimit = maxCandidates
	}

	filter := VisibilityFilter(userID)

	degraded := false
	var semantic []*ChunkHit
	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		// Keyword-only degradation: the index still answers even when
		// the embedding provider is down.
		degraded = true
		log.Printf("query embedding failed, degrading to lexical search: %v", err)
		telemetry.CaptureError(ctx, err)
	} else {
		semantic, err = s.repo.SearchSemantic(ctx, embedding, filter, candidateLimit)
		if err != nil {
			return nil, err
		}
	}

	lexical, err := s.repo.SearchLexical(ctx, query, filter, candidateLimit)
	if err != nil {
		return nil, err
	}

	fused := fuseHybrid(semantic, lexical)
	if len(fused) > topK {
		fused = fused[:topK]
	}

	return &SearchResult{Hits: fused, Degraded: degraded}, nil
}

// fuseHybrid merges both ranked lists with weighted reciprocal rank
// fusion. The best per-leg stage score stays on Score; the fused score
// lands on RerankScore and alone decides the order, with ties keeping
// first-seen order.
func fuseHybrid(semantic, lexical []*ChunkHit) []*ChunkHit {
	type candidate struct {
		hit   *ChunkHit
		score float32
	}

	candidates := make(map[string]*candidate)
	order := make([]string, 0, len(semantic)+len(lexical))

	addList := func(list []*ChunkHit, weight float32) {
		for i, h := range list {
			if h == nil {
				continue
			}
			cand, ok := candidates[h.ID]
			if !ok {
				cloned := *h
				cand = &candidate{hit: &cloned}
				candidates[h.ID] = cand
				order = append(order, h.ID)
			}
			if h.Score > cand.hit.Score {
				cand.hit.Score = h.Score
			}
			cand.score += weight / float32(rrfK+i+1)
		}
	}

	addList(semantic, semanticWeight)
	addList(lexical, lexicalWeight)

	out := make([]*ChunkHit, 0, len(candidates))
	for _, id := range order {
		cand := candidates[id]
		cand.hit.RerankScore = cand.score
		out = append(out, cand.hit)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RerankScore > out[j].RerankScore
	})
	return out
}
