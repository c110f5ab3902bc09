package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// ShareCmd returns the share command
func ShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share <document>",
		Short: "Grant users read access to a document",
		Long:  "Add users to the allow-list of every chunk of a document the caller owns",
		Args:  cobra.ExactArgs(1),
		RunE:  runShare,
	}

	cmd.Flags().StringSlice("with", nil, "Users to grant access (repeatable)")
	cmd.MarkFlagRequired("with")

	return cmd
}

type shareRequest struct {
	Users []string `json:"users"`
}

type shareResult struct {
	DocumentName  string   `json:"document_name"`
	ChunksUpdated int      `json:"chunks_updated"`
	AllowedUsers  []string `json:"allowed_users"`
}

func runShare(cmd *cobra.Command, args []string) error {
	apiClient, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	users, _ := cmd.Flags().GetStringSlice("with")

	resp, err := apiClient.Post("/documents/"+url.PathEscape(args[0])+"/share", shareRequest{Users: users})
	if err != nil {
		return err
	}

	var result shareResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if jsonOutput(cmd) {
		return printJSON(result)
	}

	fmt.Printf("Shared %q with %s (%d chunks updated)\n",
		result.DocumentName, strings.Join(users, ", "), result.ChunksUpdated)
	return nil
}
