package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var accountSSHCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Manage SSH keys stored on the account",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var accountSSHListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all SSH keys in the account",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		keys, err := client.SSHKeys(ctx)
		if err != nil {
			presenter.Error(err, "Failed to fetch SSH keys")
			os.Exit(1)
		}
		if len(keys) == 0 {
			presenter.Info("No SSH keys found.")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tKEY")
		fmt.Fprintln(tw, "--\t----\t---")
		for _, k := range keys {
			preview := k.Key
			if len(preview) > 50 {
				preview = preview[:50] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", k.ID, k.Name, preview)
		}
		tw.Flush()
	},
}

var accountSSHAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an SSH key to the account",
	Long:  `Add an SSH public key to the account, either inline with --key or from a file with --file.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		name, _ := cmd.Flags().GetString("name")
		algo, _ := cmd.Flags().GetString("algo")
		key, _ := cmd.Flags().GetString("key")
		file, _ := cmd.Flags().GetString("file")

		if file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				presenter.Error(err, "Failed to read key file")
				os.Exit(1)
			}
			key = strings.TrimSpace(string(data))
		}
		if key == "" {
			presenter.Error(errors.New("either --key or --file must be provided"), "Failed to add SSH key")
			os.Exit(1)
		}
		if algo != "" && !strings.HasPrefix(key, algo) {
			key = algo + " " + key
		}

		client, _ := activeClient(ctx)
		keyID, err := client.AddSSHKey(ctx, key, name)
		if err != nil {
			presenter.Error(err, "Failed to add SSH key")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("SSH key added with ID: %s", keyID))
	},
}

var accountSSHRenameCmd = &cobra.Command{
	Use:   "rename <key-id> <new-name>",
	Short: "Rename an SSH key",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.RenameSSHKey(ctx, args[0], args[1]); err != nil {
			presenter.Error(err, "Failed to rename SSH key")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("SSH key %s renamed to %q", args[0], args[1]))
	},
}

var accountSSHDeleteCmd = &cobra.Command{
	Use:   "delete <key-id>",
	Short: "Delete an SSH key from the account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.DeleteSSHKey(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to delete SSH key")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("SSH key %s deleted", args[0]))
	},
}

func init() {
	accountSSHAddCmd.Flags().String("name", "", "Optional name for the SSH key")
	accountSSHAddCmd.Flags().String("algo", "", "SSH key algorithm prefix (e.g. ssh-ed25519)")
	accountSSHAddCmd.Flags().String("key", "", "SSH public key content")
	accountSSHAddCmd.Flags().String("file", "", "Path to an SSH public key file")

	accountSSHCmd.AddCommand(accountSSHListCmd)
	accountSSHCmd.AddCommand(accountSSHAddCmd)
	accountSSHCmd.AddCommand(accountSSHRenameCmd)
	accountSSHCmd.AddCommand(accountSSHDeleteCmd)
}
