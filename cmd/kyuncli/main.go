package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kyun-host/kyuncli/pkg/accounts"
	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/logger"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("KYUNCLI")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.kyuncli")
	viper.AddConfigPath(".")

	viper.SetDefault("base_url", api.DefaultBaseURL)
	viper.SetDefault("timeout", 20*time.Second)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "text")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "kyuncli",
	Short: "Command line client for kyun.host",
	Long: `kyuncli manages kyun.host accounts and services from the terminal:
Danbo virtual servers, Brick storage volumes, deposits, and support chats.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning(fmt.Sprintf("Invalid log level %q, using warn", viper.GetString("log_level")))
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		quiet, _ := cmd.Flags().GetBool("quiet")
		presenter.SetQuiet(quiet)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// openStore loads the account store, failing loudly on a corrupt file
// instead of silently discarding stored API keys.
func openStore(ctx context.Context) *accounts.Store {
	path := viper.GetString("accounts_file")
	if path == "" {
		var err error
		path, err = accounts.DefaultPath()
		if err != nil {
			presenter.Error(err, "Failed to locate account config")
			os.Exit(1)
		}
	}

	store, err := accounts.Load(path)
	if err != nil {
		if errors.Is(err, accounts.ErrConfigCorrupt) {
			presenter.Error(err, "Account config is corrupt")
			presenter.Info(fmt.Sprintf("Fix or remove %s and run 'kyuncli account setup' again.", path))
		} else {
			presenter.Error(err, "Failed to load account config")
		}
		os.Exit(1)
	}

	logger.G(ctx).WithField("path", path).WithField("accounts", store.Len()).Debug("account store loaded")
	return store
}

// clientOptions returns the options shared by every client the CLI builds.
func clientOptions() []api.Option {
	return []api.Option{
		api.WithBaseURL(viper.GetString("base_url")),
		api.WithTimeout(viper.GetDuration("timeout")),
	}
}

// anonClient builds a client without credentials, for login and account
// creation.
func anonClient() *api.Client {
	return api.New(clientOptions()...)
}

// activeClient builds a client authenticated as the active account. It
// exits with guidance when no account is selected.
func activeClient(ctx context.Context) (*api.Client, accounts.Account) {
	store := openStore(ctx)

	acct, err := store.GetActive()
	if err != nil {
		presenter.Error(err, "No active account")
		presenter.Info("Run 'kyuncli account setup' to add an account, or 'kyuncli account login <hash>' to select one.")
		os.Exit(1)
	}

	logger.G(ctx).WithField("hash", acct.Hash).Debug("using active account")

	opts := append(clientOptions(), api.WithAPIKey(acct.APIKey))
	return api.New(opts...), acct
}

func main() {
	rootCmd.PersistentFlags().String("base-url", api.DefaultBaseURL, "API endpoint to talk to")
	rootCmd.PersistentFlags().Duration("timeout", 20*time.Second, "HTTP request timeout")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(danboCmd)
	rootCmd.AddCommand(brickCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
