package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// DeleteCmd returns the delete command
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <document>",
		Short: "Delete a document",
		Long:  "Remove every indexed chunk of a document the caller owns",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	return cmd
}

type deleteResult struct {
	DocumentName  string `json:"document_name"`
	ChunksDeleted int    `json:"chunks_deleted"`
}

func runDelete(cmd *cobra.Command, args []string) error {
	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := apiClient.Delete("/documents/" + url.PathEscape(args[0]))
	if err != nil {
		return err
	}

	var result deleteResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if jsonOutput(cmd) {
		return printJSON(result)
	}

	fmt.Printf("Deleted %q (%d chunks removed)\n", result.DocumentName, result.ChunksDeleted)
	return nil
}
