package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/veldtlabs/docvault/internal/cli"
	"github.com/veldtlabs/docvault/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "docvault",
		Short: "DocVault CLI - Access-controlled document search",
		Long: `DocVault CLI provides commands to index, share, and search documents.

Environment variables:
  DOCVAULT_USER_ID   User id sent with every request (required)
  DOCVAULT_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("user", "", "User id for requests (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.UploadCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.DocsCmd())
	rootCmd.AddCommand(client.ShareCmd())
	rootCmd.AddCommand(client.DeleteCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
