package service

import (
	"strings"

	"github.com/veldtlabs/docvault/internal/domain"
)

// ChunkConfig controls how extracted text is windowed into chunks. Sizes
// are in whitespace-delimited words.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    1000,
		Overlap: 200,
	}
}

// Validate checks the window parameters: 0 <= overlap < size.
func (cfg ChunkConfig) Validate() error {
	if cfg.Size <= 0 || cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		return domain.ErrInvalidChunkParams
	}
	return nil
}

// chunkText splits text into overlapping word windows advancing by
// (size - overlap) words. The sequence is deterministic and empty input
// yields no chunks; windows that trim to nothing are skipped.
func chunkText(text string, cfg ChunkConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	step := cfg.Size - cfg.Overlap
	chunks := make([]string, 0, (len(words)+step-1)/step)
	for start := 0; start < len(words); start += step {
		end := start + cfg.Size
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.TrimSpace(strings.Join(words[start:end], " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(words) {
			break
		}
	}

	return chunks, nil
}
