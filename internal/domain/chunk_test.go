package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID(t *testing.T) {
	tests := []struct {
		name         string
		documentName string
		owner        string
		index        int
		want         string
	}{
		{
			name:         "plain names",
			documentName: "policy.txt",
			owner:        "bob",
			index:        0,
			want:         "policy_txt_bob_0",
		},
		{
			name:         "email owner",
			documentName: "report.pdf",
			owner:        "alice@example.com",
			index:        3,
			want:         "report_pdf_alice_example_com_3",
		},
		{
			name:         "spaces and punctuation stripped",
			documentName: "Q3 results (final).docx",
			owner:        "bob",
			index:        1,
			want:         "Q3_results_final__docx_bob_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkID(tt.documentName, tt.owner, tt.index))
		})
	}
}

func TestChunkIDDisjointAcrossOwners(t *testing.T) {
	// Same document name, different owners: ids must never collide.
	bob := ChunkID("notes.txt", "bob", 0)
	alice := ChunkID("notes.txt", "alice", 0)
	assert.NotEqual(t, bob, alice)
}

func TestNormalizeAllowedUsers(t *testing.T) {
	t.Run("owner always included", func(t *testing.T) {
		got := NormalizeAllowedUsers("bob", nil)
		assert.Equal(t, []string{"bob"}, got)
	})

	t.Run("deduplicates and sorts", func(t *testing.T) {
		got := NormalizeAllowedUsers("bob", []string{"carol", "alice", "carol", "bob"})
		assert.Equal(t, []string{"alice", "bob", "carol"}, got)
	})

	t.Run("drops blank entries", func(t *testing.T) {
		got := NormalizeAllowedUsers("bob", []string{"", "  ", "alice"})
		assert.Equal(t, []string{"alice", "bob"}, got)
	})
}

func TestNewChunk(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid", func(t *testing.T) {
		c, err := NewChunk("policy.txt", "bob", 2, "some words", false, []string{"alice"}, []float32{0.1, 0.2}, now)
		require.NoError(t, err)
		assert.Equal(t, "policy_txt_bob_2", c.ID)
		assert.Equal(t, []string{"alice", "bob"}, c.AllowedUsers)
		assert.Equal(t, now, c.UploadedAt)
	})

	t.Run("negative index rejected", func(t *testing.T) {
		_, err := NewChunk("policy.txt", "bob", -1, "words", false, nil, nil, now)
		assert.Error(t, err)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := NewChunk("policy.txt", "bob", 0, "   ", false, nil, nil, now)
		assert.Error(t, err)
	})

	t.Run("missing owner rejected", func(t *testing.T) {
		_, err := NewChunk("policy.txt", "", 0, "words", false, nil, nil, now)
		assert.Error(t, err)
	})
}

func TestValidateChunkOwnerMustBeAllowed(t *testing.T) {
	c := &Chunk{
		ID:           "doc_bob_0",
		Content:      "words",
		DocumentName: "doc",
		ChunkIndex:   0,
		OwnerUserID:  "bob",
		AllowedUsers: []string{"alice"},
	}
	err := ValidateChunk(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner")
}
