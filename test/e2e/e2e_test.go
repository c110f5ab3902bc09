//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ingestResponse struct {
	DocumentName  string `json:"document_name"`
	ChunksIndexed int    `json:"chunks_indexed"`
	ChunksFailed  int    `json:"chunks_failed"`
}

type documentSummary struct {
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	IsShared   bool   `json:"is_shared"`
	ChunkCount int    `json:"chunk_count"`
}

type listResponse struct {
	Items      []documentSummary `json:"items"`
	NextCursor string            `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

type searchResponse struct {
	Hits []struct {
		Content      string  `json:"content"`
		DocumentName string  `json:"document_name"`
		Owner        string  `json:"owner"`
		ChunkIndex   int     `json:"chunk_index"`
		Score        float32 `json:"score"`
	} `json:"hits"`
	Degraded bool `json:"degraded"`
}

func uploadBody(name, content string, shared bool, allowed ...string) map[string]interface{} {
	return map[string]interface{}{
		"name":          name,
		"content":       content,
		"is_shared":     shared,
		"allowed_users": allowed,
	}
}

// sentences produces at least the requested number of words of distinct text
func sentences(topic string, words int) string {
	var b strings.Builder
	for i, count := 0, 0; count < words; i++ {
		fmt.Fprintf(&b, "%s paragraph %d covers planning detail item%d. ", topic, i, i)
		count += 7
	}
	return b.String()
}

func TestE2E_DocumentLifecycle(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	t.Run("upload indexes chunks", func(t *testing.T) {
		resp, err := env.Post("/documents", uploadBody("roadmap.txt", sentences("roadmap", 2400), false), "alice")
		require.NoError(t, err)

		var out ingestResponse
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.Equal(t, "roadmap.txt", out.DocumentName)
		assert.Equal(t, 3, out.ChunksIndexed)
		assert.Zero(t, out.ChunksFailed)
	})

	t.Run("list shows the document with chunk count", func(t *testing.T) {
		resp, err := env.Get("/documents", "alice")
		require.NoError(t, err)

		var out listResponse
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		require.Len(t, out.Items, 1)
		assert.Equal(t, "roadmap.txt", out.Items[0].Name)
		assert.Equal(t, "alice", out.Items[0].Owner)
		assert.False(t, out.Items[0].IsShared)
		assert.Equal(t, 3, out.Items[0].ChunkCount)
	})

	t.Run("search finds the document", func(t *testing.T) {
		resp, err := env.Post("/search", map[string]interface{}{
			"query": "roadmap planning",
			"top_k": 5,
		}, "alice")
		require.NoError(t, err)

		var out searchResponse
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.False(t, out.Degraded)
		require.NotEmpty(t, out.Hits)
		assert.Equal(t, "roadmap.txt", out.Hits[0].DocumentName)
		assert.Greater(t, out.Hits[0].Score, float32(0))
	})

	t.Run("re-upload replaces rather than duplicates", func(t *testing.T) {
		_, err := env.Post("/documents", uploadBody("roadmap.txt", sentences("roadmap", 2400), false), "alice")
		require.NoError(t, err)

		resp, err := env.Get("/documents", "alice")
		require.NoError(t, err)

		var out listResponse
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		require.Len(t, out.Items, 1)
		assert.Equal(t, 3, out.Items[0].ChunkCount)
	})

	t.Run("delete removes every chunk", func(t *testing.T) {
		resp, err := env.Delete("/documents/roadmap.txt", "alice")
		require.NoError(t, err)

		var out struct {
			DocumentName  string `json:"document_name"`
			ChunksDeleted int    `json:"chunks_deleted"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.Equal(t, 3, out.ChunksDeleted)

		listResp, err := env.Get("/documents", "alice")
		require.NoError(t, err)
		var list listResponse
		require.NoError(t, json.Unmarshal(listResp.Data, &list))
		assert.Empty(t, list.Items)
	})

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		_, err := env.Post("/search", map[string]interface{}{"query": "anything"}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestE2E_AccessControl(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	seed := func(user, name string, shared bool, allowed ...string) {
		_, err := env.Post("/documents", uploadBody(name, sentences(name, 300), shared, allowed...), user)
		require.NoError(t, err)
	}

	seed("alice", "private-plan.txt", false)
	seed("alice", "company-handbook.txt", true)
	seed("alice", "budget-notes.txt", false, "carol")
	seed("bob", "bob-journal.txt", false)

	listNames := func(user string) []string {
		resp, err := env.Get("/documents?limit=50", user)
		require.NoError(t, err)
		var out listResponse
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		names := make([]string, 0, len(out.Items))
		for _, item := range out.Items {
			names = append(names, item.Name)
		}
		return names
	}

	t.Run("owner sees everything they uploaded", func(t *testing.T) {
		names := listNames("alice")
		assert.ElementsMatch(t, []string{"private-plan.txt", "company-handbook.txt", "budget-notes.txt"}, names)
	})

	t.Run("stranger sees only shared documents plus their own", func(t *testing.T) {
		names := listNames("bob")
		assert.ElementsMatch(t, []string{"company-handbook.txt", "bob-journal.txt"}, names)
	})

	t.Run("allow-listed user sees the granted document", func(t *testing.T) {
		names := listNames("carol")
		assert.ElementsMatch(t, []string{"company-handbook.txt", "budget-notes.txt"}, names)
	})

	t.Run("search respects the same visibility", func(t *testing.T) {
		resp, err := env.Post("/search", map[string]interface{}{
			"query": "private-plan planning",
			"top_k": 10,
		}, "bob")
		require.NoError(t, err)

		var out searchResponse
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		for _, hit := range out.Hits {
			assert.NotEqual(t, "private-plan.txt", hit.DocumentName)
		}
	})

	t.Run("share grants a new user access", func(t *testing.T) {
		resp, err := env.Post("/documents/private-plan.txt/share", map[string]interface{}{
			"users": []string{"bob"},
		}, "alice")
		require.NoError(t, err)

		var out struct {
			DocumentName  string   `json:"document_name"`
			ChunksUpdated int      `json:"chunks_updated"`
			AllowedUsers  []string `json:"allowed_users"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.Greater(t, out.ChunksUpdated, 0)
		assert.Contains(t, out.AllowedUsers, "bob")
		assert.Contains(t, out.AllowedUsers, "alice")

		assert.Contains(t, listNames("bob"), "private-plan.txt")
	})

	t.Run("share is idempotent", func(t *testing.T) {
		resp, err := env.Post("/documents/private-plan.txt/share", map[string]interface{}{
			"users": []string{"bob"},
		}, "alice")
		require.NoError(t, err)

		var out struct {
			AllowedUsers []string `json:"allowed_users"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &out))

		counts := map[string]int{}
		for _, u := range out.AllowedUsers {
			counts[u]++
		}
		assert.Equal(t, 1, counts["bob"])
	})

	t.Run("non-owner cannot share", func(t *testing.T) {
		// The share lookup is owner-scoped, so someone else's document
		// looks absent rather than forbidden.
		_, err := env.Post("/documents/private-plan.txt/share", map[string]interface{}{
			"users": []string{"mallory"},
		}, "bob")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("non-owner cannot delete even with read access", func(t *testing.T) {
		_, err := env.Delete("/documents/private-plan.txt", "bob")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("deleting a missing document is masked for non-admins", func(t *testing.T) {
		// The ownership probe runs first, so a non-admin cannot tell a
		// missing document from someone else's.
		_, err := env.Delete("/documents/no-such-doc.txt", "alice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")

		_, err = env.DeleteAsAdmin("/documents/no-such-doc.txt", "ops", "e2e-admin-token")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("admin token overrides ownership on delete", func(t *testing.T) {
		seed("alice", "stale-report.txt", false)

		_, err := env.DeleteAsAdmin("/documents/stale-report.txt", "ops", "e2e-admin-token")
		require.NoError(t, err)
		assert.NotContains(t, listNames("alice"), "stale-report.txt")
	})

	t.Run("same name under two owners stays separate", func(t *testing.T) {
		seed("alice", "notes.txt", false)
		seed("bob", "notes.txt", false)

		_, err := env.Delete("/documents/notes.txt", "alice")
		require.NoError(t, err)

		assert.Contains(t, listNames("bob"), "notes.txt")
		assert.NotContains(t, listNames("alice"), "notes.txt")
	})
}

func TestE2E_CLIWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.BuildBinaries()

	workDir, err := os.MkdirTemp("", "docvault-cli-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(workDir)

	docPath := filepath.Join(workDir, "meeting-notes.txt")
	require.NoError(t, os.WriteFile(docPath, []byte(sentences("meeting", 400)), 0644))

	t.Run("docvault upload indexes a file", func(t *testing.T) {
		output, err := env.RunDocvault(workDir, "alice", "upload", docPath, "--output")
		require.NoError(t, err, "upload failed: %s", output)
		assert.Contains(t, output, "meeting-notes.txt")
		assert.Contains(t, output, "chunks_indexed")
	})

	t.Run("docvault docs lists the document", func(t *testing.T) {
		output, err := env.RunDocvault(workDir, "alice", "docs")
		require.NoError(t, err, "docs failed: %s", output)
		assert.Contains(t, output, "meeting-notes.txt")
	})

	t.Run("docvault search finds the document", func(t *testing.T) {
		output, err := env.RunDocvault(workDir, "alice", "search", "meeting", "planning", "--output")
		require.NoError(t, err, "search failed: %s", output)
		assert.Contains(t, output, "meeting-notes.txt")
	})

	t.Run("docvault share grants access", func(t *testing.T) {
		output, err := env.RunDocvault(workDir, "alice", "share", "meeting-notes.txt", "--with", "bob")
		require.NoError(t, err, "share failed: %s", output)

		output, err = env.RunDocvault(workDir, "bob", "docs")
		require.NoError(t, err, "docs failed: %s", output)
		assert.Contains(t, output, "meeting-notes.txt")
	})

	t.Run("docvault delete removes the document", func(t *testing.T) {
		output, err := env.RunDocvault(workDir, "alice", "delete", "meeting-notes.txt")
		require.NoError(t, err, "delete failed: %s", output)

		output, err = env.RunDocvault(workDir, "alice", "docs")
		require.NoError(t, err, "docs failed: %s", output)
		assert.NotContains(t, output, "meeting-notes.txt")
	})
}
