package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchCmd returns the search command
func SearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search visible documents",
		Long:  "Run hybrid retrieval over every document the caller can see",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().IntP("top-k", "k", 5, "Number of results to return")

	return cmd
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchHit struct {
	Content      string  `json:"content"`
	DocumentName string  `json:"document_name"`
	Owner        string  `json:"owner"`
	IsShared     bool    `json:"is_shared"`
	ChunkIndex   int     `json:"chunk_index"`
	Score        float32 `json:"score"`
	RerankScore  float32 `json:"rerank_score"`
}

type searchResult struct {
	Hits     []searchHit `json:"hits"`
	Degraded bool        `json:"degraded"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	topK, _ := cmd.Flags().GetInt("top-k")

	resp, err := apiClient.Post("/search", searchRequest{
		Query: strings.Join(args, " "),
		TopK:  topK,
	})
	if err != nil {
		return err
	}

	var result searchResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if jsonOutput(cmd) {
		return printJSON(result)
	}

	if result.Degraded {
		fmt.Println("Note: semantic ranking unavailable, results are keyword-only")
	}
	if len(result.Hits) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, hit := range result.Hits {
		fmt.Printf("%d. %s (owner: %s, chunk %d, score %.4f)\n", i+1, hit.DocumentName, hit.Owner, hit.ChunkIndex, hit.RerankScore)
		fmt.Printf("   %s\n", snippet(hit.Content, 200))
	}
	return nil
}

func snippet(content string, maxChars int) string {
	clean := strings.Join(strings.Fields(content), " ")
	if len(clean) <= maxChars {
		return clean
	}
	return clean[:maxChars-3] + "..."
}
