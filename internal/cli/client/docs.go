package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// DocsCmd returns the docs command
func DocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List visible documents",
		Long:  "List the documents the caller owns, that are shared, or that the caller was granted access to",
		RunE:  runDocs,
	}

	cmd.Flags().Int("limit", 20, "Maximum documents per page")
	cmd.Flags().String("cursor", "", "Pagination cursor from a previous page")

	return cmd
}

type documentSummary struct {
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	IsShared   bool   `json:"is_shared"`
	ChunkCount int    `json:"chunk_count"`
}

type listDocumentsResult struct {
	Items      []documentSummary `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

func runDocs(cmd *cobra.Command, args []string) error {
	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	cursor, _ := cmd.Flags().GetString("cursor")

	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", limit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	resp, err := apiClient.Get("/documents?" + query.Encode())
	if err != nil {
		return err
	}

	var result listDocumentsResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if jsonOutput(cmd) {
		return printJSON(result)
	}

	if len(result.Items) == 0 {
		fmt.Println("No documents")
		return nil
	}

	for _, item := range result.Items {
		visibility := "private"
		if item.IsShared {
			visibility = "shared"
		}
		fmt.Printf("%s  (owner: %s, %s, %d chunks)\n", item.Name, item.Owner, visibility, item.ChunkCount)
	}
	if result.HasMore {
		fmt.Printf("\nMore results: --cursor %s\n", result.NextCursor)
	}
	return nil
}
