package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kyun-host/kyuncli/pkg/accounts"
	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/format"
	"github.com/kyun-host/kyuncli/pkg/logger"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts and API keys",
	Long:  `Add, switch, and remove stored kyun.host accounts, and manage account-level settings.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var accountSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Setup an account: login and create an API key",
	Long:  `Log in with your account hash and password, mint a dedicated API key, and store it locally.`,
	Run: func(cmd *cobra.Command, _ []string) {
		hash, _ := cmd.Flags().GetString("hash")
		label, _ := cmd.Flags().GetString("label")
		setupAccount(cmd.Context(), hash, label)
	},
}

var accountLoginCmd = &cobra.Command{
	Use:   "login <hash>",
	Short: "Switch active account or setup if new",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loginAccount(cmd.Context(), args[0])
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Run: func(cmd *cobra.Command, _ []string) {
		listStoredAccounts(cmd.Context())
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <hash>",
	Short: "Remove a stored account",
	Long:  `Remove an account's credentials from the local store. The account itself is untouched.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		removeStoredAccount(cmd.Context(), args[0])
	},
}

var accountBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Check balance of the active account",
	Run: func(cmd *cobra.Command, _ []string) {
		showBalance(cmd.Context())
	},
}

var accountInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show details of the active account",
	Run: func(cmd *cobra.Command, _ []string) {
		showAccountInfo(cmd.Context())
	},
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contact settings",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var contactGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show contact settings",
	Run: func(cmd *cobra.Command, _ []string) {
		showContact(cmd.Context())
	},
}

var contactSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update contact settings",
	Long:  `Update email and/or Matrix contact addresses. Only the flags you pass are changed.`,
	Run: func(cmd *cobra.Command, _ []string) {
		var email, matrix *string
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			email = &v
		}
		if cmd.Flags().Changed("matrix") {
			v, _ := cmd.Flags().GetString("matrix")
			matrix = &v
		}
		updateContact(cmd.Context(), email, matrix)
	},
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Manage the Telegram contact binding",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var telegramLinkCmd = &cobra.Command{
	Use:   "link <code>",
	Short: "Link a Telegram account with a verification code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := activeClient(cmd.Context())
		if err := client.LinkTelegram(cmd.Context(), args[0]); err != nil {
			presenter.Error(err, "Failed to link Telegram")
			os.Exit(1)
		}
		presenter.Success("Telegram account linked")
	},
}

var telegramUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Unlink the Telegram account",
	Run: func(cmd *cobra.Command, _ []string) {
		client, _ := activeClient(cmd.Context())
		if err := client.UnlinkTelegram(cmd.Context()); err != nil {
			presenter.Error(err, "Failed to unlink Telegram")
			os.Exit(1)
		}
		presenter.Success("Telegram account unlinked")
	},
}

func init() {
	accountSetupCmd.Flags().String("hash", "", "Your account hash")
	accountSetupCmd.Flags().String("label", "kyuncli-key", "Label to assign to the created API key")

	contactSetCmd.Flags().String("email", "", "Email address for notifications")
	contactSetCmd.Flags().String("matrix", "", "Matrix address for notifications")

	contactCmd.AddCommand(contactGetCmd)
	contactCmd.AddCommand(contactSetCmd)

	telegramCmd.AddCommand(telegramLinkCmd)
	telegramCmd.AddCommand(telegramUnlinkCmd)

	accountCmd.AddCommand(accountSetupCmd)
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountRemoveCmd)
	accountCmd.AddCommand(accountBalanceCmd)
	accountCmd.AddCommand(accountInfoCmd)
	accountCmd.AddCommand(contactCmd)
	accountCmd.AddCommand(telegramCmd)
	accountCmd.AddCommand(apiKeyCmd)
	accountCmd.AddCommand(accountSSHCmd)
}

// obtainCredentials logs in with a password, mints a dedicated API key, and
// returns it together with the account's user id. The service stores hashes
// upper-cased, so the hash is normalized the same way.
func obtainCredentials(ctx context.Context, hash, label string) (apiKey, userID string, err error) {
	password := presenter.PromptHidden("Password")
	otp := presenter.PromptHidden("OTP code (if 2FA enabled)")
	if label == "" {
		label = presenter.Prompt("Label for new API key", "kyuncli-key")
	}

	token, err := anonClient().Login(ctx, hash, password, otp)
	if err != nil {
		return "", "", err
	}

	opts := append(clientOptions(), api.WithTempToken(token))
	authed := api.New(opts...)

	apiKey, err = authed.CreateAPIKey(ctx, label)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to create API key")
	}

	info, err := authed.UserInfo(ctx)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to fetch user info")
	}

	return apiKey, info.ID.String(), nil
}

// explainLoginError maps the common login failures to the messages users
// actually need.
func explainLoginError(err error) {
	switch {
	case errors.Is(err, api.ErrUnauthorized) && strings.Contains(err.Error(), "Invalid 2FA code"):
		presenter.Error(err, "Login failed: invalid 2FA code")
	case errors.Is(err, api.ErrUnauthorized):
		presenter.Error(err, "Login failed: wrong password")
	case errors.Is(err, api.ErrOTPRequired):
		presenter.Error(err, "Login failed: 2FA is enabled but no OTP code provided")
	case errors.Is(err, api.ErrNotFound):
		presenter.Error(err, "Login failed: user not found")
	default:
		presenter.Error(err, "Login failed")
	}
}

func setupAccount(ctx context.Context, hash, label string) {
	if hash == "" {
		hash = presenter.Prompt("Account hash", "")
	}
	hash = strings.ToUpper(strings.TrimSpace(hash))
	if hash == "" {
		presenter.Error(errors.New("account hash is required"), "Setup failed")
		os.Exit(1)
	}

	store := openStore(ctx)

	apiKey, userID, err := obtainCredentials(ctx, hash, label)
	if err != nil {
		explainLoginError(err)
		os.Exit(1)
	}

	if err := store.AddAccount(hash, apiKey, userID); err != nil {
		presenter.Error(err, "Failed to save account")
		os.Exit(1)
	}

	if acct, err := store.GetActive(); err == nil && acct.Hash == hash {
		presenter.Success(fmt.Sprintf("Setup complete. API key saved and active for %s.", hash))
	} else {
		presenter.Success(fmt.Sprintf("Setup complete. API key saved for %s.", hash))
		presenter.Info(fmt.Sprintf("Run 'kyuncli account login %s' to make it the active account.", hash))
	}
}

func loginAccount(ctx context.Context, hash string) {
	hash = strings.ToUpper(strings.TrimSpace(hash))
	store := openStore(ctx)

	err := store.SetActive(hash)
	if err == nil {
		presenter.Success(fmt.Sprintf("Switched active account to %s.", hash))
		return
	}
	if !errors.Is(err, accounts.ErrUnknownAccount) {
		presenter.Error(err, "Failed to switch account")
		os.Exit(1)
	}

	presenter.Info(fmt.Sprintf("Account %s not found. Performing setup...", hash))

	apiKey, userID, err := obtainCredentials(ctx, hash, "")
	if err != nil {
		explainLoginError(err)
		os.Exit(1)
	}

	if err := store.AddAccount(hash, apiKey, userID); err != nil {
		presenter.Error(err, "Failed to save account")
		os.Exit(1)
	}
	if err := store.SetActive(hash); err != nil {
		presenter.Error(err, "Failed to activate account")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Setup complete. API key saved and active for %s.", hash))
}

func listStoredAccounts(ctx context.Context) {
	store := openStore(ctx)

	accts := store.ListAccounts()
	if len(accts) == 0 {
		presenter.Info("No accounts stored. Use 'kyuncli account setup' to add one.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HASH\tUSER ID\tAPI KEY")
	fmt.Fprintln(tw, "----\t-------\t-------")
	for _, acct := range accts {
		hash := acct.Hash
		if acct.Active {
			hash = "* " + hash
		} else {
			hash = "  " + hash
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", hash, acct.UserID, format.RedactKey(acct.APIKey))
	}
	tw.Flush()

	presenter.Info("\n* indicates the active account")
}

func removeStoredAccount(ctx context.Context, hash string) {
	hash = strings.ToUpper(strings.TrimSpace(hash))
	store := openStore(ctx)

	wasActive := false
	if acct, err := store.GetActive(); err == nil {
		wasActive = acct.Hash == hash
	}

	if err := store.RemoveAccount(hash); err != nil {
		if errors.Is(err, accounts.ErrUnknownAccount) {
			presenter.Info(fmt.Sprintf("Account %s not found.", hash))
			return
		}
		presenter.Error(err, "Failed to remove account")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Removed account %s.", hash))
	if wasActive && store.Len() > 0 {
		presenter.Info("The removed account was active. Run 'kyuncli account login <hash>' to select another.")
	}
}

func showBalance(ctx context.Context) {
	client, _ := activeClient(ctx)

	info, err := client.UserInfo(ctx)
	if err != nil {
		presenter.Error(err, "Failed to fetch balance")
		os.Exit(1)
	}
	presenter.Info(fmt.Sprintf("Balance: %s", format.EUR(info.Balance)))
}

func showAccountInfo(ctx context.Context) {
	client, acct := activeClient(ctx)

	info, err := client.UserInfo(ctx)
	if err != nil {
		presenter.Error(err, "Failed to fetch account info")
		os.Exit(1)
	}

	presenter.Section("Account")
	presenter.Info(fmt.Sprintf("Hash    : %s", info.AccountHash))
	presenter.Info(fmt.Sprintf("User ID : %s", info.ID.String()))
	presenter.Info(fmt.Sprintf("Balance : %s", format.EUR(info.Balance)))
	presenter.Info(fmt.Sprintf("API key : %s", format.RedactKey(acct.APIKey)))

	if otp, err := client.GetOTPStatus(ctx); err == nil {
		presenter.Info(fmt.Sprintf("2FA     : %v", otp.Enabled))
	} else {
		logger.G(ctx).WithError(err).Debug("failed to fetch OTP status")
	}
}

func showContact(ctx context.Context) {
	client, _ := activeClient(ctx)

	contact, err := client.GetContact(ctx)
	if err != nil {
		presenter.Error(err, "Failed to fetch contact settings")
		os.Exit(1)
	}

	email := contact.Email
	if email == "" {
		email = "(not set)"
	}
	matrix := contact.Matrix
	if matrix == "" {
		matrix = "(not set)"
	}
	presenter.Info(fmt.Sprintf("Email  : %s", email))
	presenter.Info(fmt.Sprintf("Matrix : %s", matrix))
}

func updateContact(ctx context.Context, email, matrix *string) {
	if email == nil && matrix == nil {
		presenter.Info("Nothing to update. Pass --email and/or --matrix.")
		return
	}

	client, _ := activeClient(ctx)
	if err := client.UpdateContact(ctx, email, matrix); err != nil {
		presenter.Error(err, "Failed to update contact settings")
		os.Exit(1)
	}
	presenter.Success("Contact settings updated")
}
