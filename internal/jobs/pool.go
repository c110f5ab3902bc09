package jobs

import (
	"context"
	"sync"
)

// Embedder defines the interface for generating embeddings
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbedResult holds the outcome for one input slot. Index refers to the
// position in the input slice, which is assigned before dispatch and is
// therefore independent of completion order.
type EmbedResult struct {
	Index  int
	Vector []float32
	Err    error
}

// Pool fans embedding requests out to a fixed number of workers. The
// embedding call dominates ingestion latency, so the pool bounds
// parallelism to what the provider's throughput limit allows.
type Pool struct {
	embedder Embedder
	workers  int
}

// NewPool creates a new Pool instance
func NewPool(embedder Embedder, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		embedder: embedder,
		workers:  workers,
	}
}

// EmbedAll embeds every text and returns one result per input, in input
// order. Individual failures are recorded per slot, never propagated; a
// cancelled context marks all undispatched slots with the context error.
func (p *Pool) EmbedAll(ctx context.Context, texts []string) []EmbedResult {
	results := make([]EmbedResult, len(texts))
	if len(texts) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(texts) {
		workers = len(texts)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = EmbedResult{Index: i, Err: err}
					continue
				}
				vector, err := p.embedder.GenerateEmbedding(ctx, texts[i])
				results[i] = EmbedResult{Index: i, Vector: vector, Err: err}
			}
		}()
	}

	for i := range texts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
