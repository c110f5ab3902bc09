package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Store user id and API URL in the global config",
		Long:  "Save the user id and API URL to the per-user config file so other commands can find them",
		RunE:  runInit,
	}

	cmd.Flags().String("user-id", "", "User id to store")
	cmd.Flags().String("url", defaultAPIURL, "API base URL to store")
	cmd.MarkFlagRequired("user-id")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user-id")
	apiURL, _ := cmd.Flags().GetString("url")

	if err := SaveGlobalConfig(&GlobalConfig{
		UserID: userID,
		APIURL: apiURL,
	}); err != nil {
		return err
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	fmt.Printf("Saved credentials for %s to %s\n", userID, configPath)
	return nil
}
