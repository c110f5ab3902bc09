package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// UploadCmd returns the upload command
func UploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for indexing",
		Long:  "Read a local text file, chunk and embed it server-side, and index it under the caller's ownership",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}

	cmd.Flags().String("name", "", "Document name (defaults to the file's base name)")
	cmd.Flags().Bool("shared", false, "Mark the document readable by every user")
	cmd.Flags().StringSlice("allow", nil, "Users granted read access (repeatable)")

	return cmd
}

type uploadRequest struct {
	Name         string   `json:"name"`
	Content      string   `json:"content"`
	IsShared     bool     `json:"is_shared"`
	AllowedUsers []string `json:"allowed_users,omitempty"`
}

type ingestResult struct {
	DocumentName  string `json:"document_name"`
	ChunksIndexed int    `json:"chunks_indexed"`
	ChunksFailed  int    `json:"chunks_failed"`
}

func runUpload(cmd *cobra.Command, args []string) error {
	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	filePath := args[0]
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(filePath)
	}
	shared, _ := cmd.Flags().GetBool("shared")
	allow, _ := cmd.Flags().GetStringSlice("allow")

	resp, err := apiClient.Post("/documents", uploadRequest{
		Name:         name,
		Content:      string(content),
		IsShared:     shared,
		AllowedUsers: allow,
	})
	if err != nil {
		return err
	}

	var result ingestResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if jsonOutput(cmd) {
		return printJSON(result)
	}

	fmt.Printf("Indexed %q: %d chunks", result.DocumentName, result.ChunksIndexed)
	if result.ChunksFailed > 0 {
		fmt.Printf(" (%d failed to embed)", result.ChunksFailed)
	}
	fmt.Println()
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	output, _ := cmd.Flags().GetBool("output")
	return output
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
