package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var danboSSHCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Manage SSH keys on a Danbo",
	Long: `Manage the authorized_keys content injected into a Danbo and inspect
its SSH host keys.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var danboSSHGetAuthorizedCmd = &cobra.Command{
	Use:   "get-authorized <danbo-id>",
	Short: "Show the authorized keys of a Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		keys, err := client.DanboAuthorizedKeys(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to get authorized keys")
			os.Exit(1)
		}
		if keys == "" {
			presenter.Info("No authorized keys configured.")
			return
		}
		presenter.Section(fmt.Sprintf("Authorized SSH keys for Danbo %s", args[0]))
		presenter.Info(keys)
	},
}

var danboSSHSetAuthorizedCmd = &cobra.Command{
	Use:   "set-authorized <danbo-id>",
	Short: "Replace the authorized keys of a Danbo",
	Long:  `Replace the Danbo's authorized keys with --keys, the content of --file, or the SSH keys stored on your account (--from-account).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		keys, _ := cmd.Flags().GetString("keys")
		file, _ := cmd.Flags().GetString("file")
		fromAccount, _ := cmd.Flags().GetBool("from-account")

		client, _ := activeClient(ctx)

		switch {
		case fromAccount:
			accountKeys, err := client.SSHKeys(ctx)
			if err != nil {
				presenter.Error(err, "Failed to fetch account SSH keys")
				os.Exit(1)
			}
			lines := make([]string, 0, len(accountKeys))
			for _, k := range accountKeys {
				lines = append(lines, k.Key)
			}
			keys = strings.Join(lines, "\n")
			presenter.Info(fmt.Sprintf("Using %d key(s) from account.", len(accountKeys)))
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				presenter.Error(err, "Failed to read keys file")
				os.Exit(1)
			}
			keys = strings.TrimSpace(string(data))
		case keys == "":
			presenter.Error(errors.New("either --keys, --file, or --from-account must be provided"), "Failed to set authorized keys")
			os.Exit(1)
		}

		if err := client.SetDanboAuthorizedKeys(ctx, args[0], keys); err != nil {
			presenter.Error(err, "Failed to set authorized keys")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Authorized keys set for Danbo %s", args[0]))
	},
}

var danboSSHAddAuthorizedCmd = &cobra.Command{
	Use:   "add-to-authorized <danbo-id>",
	Short: "Append a key to the Danbo's authorized keys",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		key, _ := cmd.Flags().GetString("key")
		file, _ := cmd.Flags().GetString("file")
		keyID, _ := cmd.Flags().GetString("key-id")

		client, _ := activeClient(ctx)

		newKey := ""
		switch {
		case keyID != "":
			match, err := findAccountSSHKey(ctx, client, keyID)
			if err != nil {
				presenter.Error(err, "Failed to resolve account SSH key")
				os.Exit(1)
			}
			newKey = match.Key
			presenter.Info(fmt.Sprintf("Adding key %q from account.", match.Name))
		case file != "":
			data, err := os.ReadFile(file)
			if err != nil {
				presenter.Error(err, "Failed to read key file")
				os.Exit(1)
			}
			newKey = strings.TrimSpace(string(data))
		case key != "":
			newKey = key
		default:
			presenter.Error(errors.New("either --key, --file, or --key-id must be provided"), "Failed to add SSH key")
			os.Exit(1)
		}

		current, err := client.DanboAuthorizedKeys(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch current authorized keys")
			os.Exit(1)
		}
		updated := newKey
		if current != "" {
			updated = current + "\n" + newKey
		}

		if err := client.SetDanboAuthorizedKeys(ctx, args[0], updated); err != nil {
			presenter.Error(err, "Failed to add SSH key")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("SSH key added to authorized keys for Danbo %s", args[0]))
	},
}

var danboSSHRemoveAuthorizedCmd = &cobra.Command{
	Use:   "remove-from-authorized <danbo-id>",
	Short: "Remove a key from the Danbo's authorized keys",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		key, _ := cmd.Flags().GetString("key")
		keyID, _ := cmd.Flags().GetString("key-id")

		client, _ := activeClient(ctx)

		removeKey := ""
		switch {
		case keyID != "":
			match, err := findAccountSSHKey(ctx, client, keyID)
			if err != nil {
				presenter.Error(err, "Failed to resolve account SSH key")
				os.Exit(1)
			}
			removeKey = match.Key
		case key != "":
			removeKey = key
		default:
			presenter.Error(errors.New("either --key or --key-id must be provided"), "Failed to remove SSH key")
			os.Exit(1)
		}

		current, err := client.DanboAuthorizedKeys(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch current authorized keys")
			os.Exit(1)
		}
		if current == "" {
			presenter.Info("No authorized keys to remove.")
			return
		}

		kept := make([]string, 0)
		removed := false
		for _, line := range strings.Split(current, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if trimmed == strings.TrimSpace(removeKey) {
				removed = true
				continue
			}
			kept = append(kept, line)
		}
		if !removed {
			presenter.Info("Key not found in authorized keys.")
			return
		}

		if err := client.SetDanboAuthorizedKeys(ctx, args[0], strings.Join(kept, "\n")); err != nil {
			presenter.Error(err, "Failed to remove SSH key")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("SSH key removed from authorized keys for Danbo %s", args[0]))
	},
}

var danboSSHHostKeysCmd = &cobra.Command{
	Use:   "get-host-keys <danbo-id>",
	Short: "Show the SSH host keys of a Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		hostKeys, err := client.DanboHostKeys(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to get host keys")
			os.Exit(1)
		}
		if len(hostKeys) == 0 {
			presenter.Info("No host keys found (SSH server may not be running).")
			return
		}

		presenter.Section(fmt.Sprintf("SSH host keys for Danbo %s", args[0]))
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, hk := range hostKeys {
			fmt.Fprintf(tw, "%s\t%s\n", hk.Type, hk.Key)
		}
		tw.Flush()
	},
}

func findAccountSSHKey(ctx context.Context, client *api.Client, keyID string) (api.SSHKey, error) {
	keys, err := client.SSHKeys(ctx)
	if err != nil {
		return api.SSHKey{}, err
	}
	for _, k := range keys {
		if k.ID == keyID {
			return k, nil
		}
	}
	return api.SSHKey{}, errors.Errorf("SSH key with ID %s not found in account", keyID)
}

func init() {
	danboSSHSetAuthorizedCmd.Flags().String("keys", "", "SSH public keys (newline separated)")
	danboSSHSetAuthorizedCmd.Flags().String("file", "", "Path to an authorized_keys file")
	danboSSHSetAuthorizedCmd.Flags().Bool("from-account", false, "Use the SSH keys stored on your account")

	danboSSHAddAuthorizedCmd.Flags().String("key", "", "SSH public key to add")
	danboSSHAddAuthorizedCmd.Flags().String("file", "", "Path to an SSH public key file")
	danboSSHAddAuthorizedCmd.Flags().String("key-id", "", "ID of an account SSH key to add")

	danboSSHRemoveAuthorizedCmd.Flags().String("key", "", "SSH public key to remove (exact match)")
	danboSSHRemoveAuthorizedCmd.Flags().String("key-id", "", "ID of an account SSH key to remove")

	danboSSHCmd.AddCommand(danboSSHGetAuthorizedCmd)
	danboSSHCmd.AddCommand(danboSSHSetAuthorizedCmd)
	danboSSHCmd.AddCommand(danboSSHAddAuthorizedCmd)
	danboSSHCmd.AddCommand(danboSSHRemoveAuthorizedCmd)
	danboSSHCmd.AddCommand(danboSSHHostKeysCmd)
}
