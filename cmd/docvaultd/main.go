package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/veldtlabs/docvault/internal/cli"
	"github.com/veldtlabs/docvault/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docvaultd",
		Short: "DocVault daemon",
		Long:  "DocVault daemon for running the API server and managing the index schema",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.MigrateCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
