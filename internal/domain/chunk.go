package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Chunk is the sole persisted entity: a bounded, ordered slice of a
// document's extracted text, embedded and tagged with access control.
// Content and ContentVector are immutable after creation; only
// AllowedUsers may be mutated in place, by the sharing service.
type Chunk struct {
	ID            string
	Content       string
	DocumentName  string
	ChunkIndex    int
	OwnerUserID   string
	IsShared      bool
	AllowedUsers  []string
	UploadedAt    time.Time
	ContentVector []float32
}

// NewChunk builds a validated chunk record. AllowedUsers is normalized to a
// sorted, de-duplicated set that always contains the owner.
func NewChunk(documentName, ownerUserID string, chunkIndex int, content string, isShared bool, allowedUsers []string, vector []float32, uploadedAt time.Time) (*Chunk, error) {
	c := &Chunk{
		ID:            ChunkID(documentName, ownerUserID, chunkIndex),
		Content:       content,
		DocumentName:  documentName,
		ChunkIndex:    chunkIndex,
		OwnerUserID:   ownerUserID,
		IsShared:      isShared,
		AllowedUsers:  NormalizeAllowedUsers(ownerUserID, allowedUsers),
		UploadedAt:    uploadedAt,
		ContentVector: vector,
	}
	if err := ValidateChunk(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ChunkID derives the primary key for a chunk. The owner is part of the
// derivation so identically named documents from different owners occupy
// disjoint id ranges in the index.
func ChunkID(documentName, ownerUserID string, chunkIndex int) string {
	return fmt.Sprintf("%s_%s_%d", SanitizeKey(documentName), SanitizeKey(ownerUserID), chunkIndex)
}

// SanitizeKey reduces a name to characters safe for use in an index key.
func SanitizeKey(name string) string {
	replaced := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == '_', r == '-', r == '=':
			return r
		case r == '.', r == ' ', r == '@':
			return '_'
		default:
			return -1
		}
	}, name)
	if replaced == "" {
		return "doc"
	}
	return replaced
}

// NormalizeAllowedUsers returns a sorted, de-duplicated allow-list that
// unconditionally includes the owner. Sorting keeps repeated share
// operations byte-identical in storage.
func NormalizeAllowedUsers(ownerUserID string, users []string) []string {
	seen := make(map[string]struct{}, len(users)+1)
	out := make([]string, 0, len(users)+1)
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	add(ownerUserID)
	for _, u := range users {
		add(u)
	}
	sort.Strings(out)
	return out
}

// ValidateChunk validates a chunk record at construction time.
func ValidateChunk(c *Chunk) error {
	if c == nil {
		return fmt.Errorf("chunk cannot be nil")
	}
	if c.ID == "" {
		return fmt.Errorf("chunk ID is required")
	}
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("chunk content is required")
	}
	if c.DocumentName == "" {
		return fmt.Errorf("chunk DocumentName is required")
	}
	if c.ChunkIndex < 0 {
		return fmt.Errorf("chunk index must be non-negative, got %d", c.ChunkIndex)
	}
	if c.OwnerUserID == "" {
		return fmt.Errorf("chunk OwnerUserID is required")
	}
	if !containsUser(c.AllowedUsers, c.OwnerUserID) {
		return fmt.Errorf("allowed users must contain the owner %q", c.OwnerUserID)
	}
	return nil
}

func containsUser(users []string, user string) bool {
	for _, u := range users {
		if u == user {
			return true
		}
	}
	return false
}
