package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kyun-host/kyuncli/pkg/format"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/spf13/cobra"
)

var apiKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Manage API keys",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var apiKeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the account's API keys",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		keys, err := client.APIKeys(ctx)
		if err != nil {
			presenter.Error(err, "Failed to fetch API keys")
			os.Exit(1)
		}
		if len(keys) == 0 {
			presenter.Info("No API keys found.")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLABEL\tCREATED")
		fmt.Fprintln(tw, "--\t-----\t-------")
		for _, k := range keys {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", k.ID, k.Label, format.Timestamp(k.CreatedAt))
		}
		tw.Flush()
	},
}

var apiKeyCreateCmd = &cobra.Command{
	Use:   "create <label>",
	Short: "Create a new API key",
	Long:  `Create a new API key with the given label. The key is printed once and never shown again.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		key, err := client.CreateAPIKey(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to create API key")
			os.Exit(1)
		}
		presenter.Success("API key created")
		presenter.Info(key)
	},
}

var apiKeyDeleteCmd = &cobra.Command{
	Use:   "delete <key-id>",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.DeleteAPIKey(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to delete API key")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("API key %s deleted", args[0]))
	},
}

func init() {
	apiKeyCmd.AddCommand(apiKeyListCmd)
	apiKeyCmd.AddCommand(apiKeyCreateCmd)
	apiKeyCmd.AddCommand(apiKeyDeleteCmd)
}
