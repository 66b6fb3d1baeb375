package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/format"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/mdp/qrterminal/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Manage deposits",
	Long:  `Create deposits, watch their on-chain progress, and check exchange rates.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var depositRatesCmd = &cobra.Command{
	Use:   "rates",
	Short: "View current exchange rates",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		rates, err := client.DepositRates(ctx)
		if err != nil {
			presenter.Error(err, "Failed to fetch rates")
			os.Exit(1)
		}
		for cur, rate := range rates {
			presenter.Info(fmt.Sprintf("%s: %g", strings.ToUpper(cur), rate))
		}
	},
}

var depositPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List all pending deposits",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		deposits, err := client.PendingDeposits(ctx)
		if err != nil {
			presenter.Error(err, "Failed to fetch pending deposits")
			os.Exit(1)
		}
		if len(deposits) == 0 {
			presenter.Info("No pending deposits found.")
			return
		}

		for _, d := range deposits {
			printDepositInfo(d.ID, &d.Payment, &d.Status)
			presenter.Separator()
		}
	},
}

var depositCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new deposit",
	Run: func(cmd *cobra.Command, _ []string) {
		createDeposit(cmd.Context())
	},
}

var depositGetCmd = &cobra.Command{
	Use:   "get <deposit-id>",
	Short: "Show a deposit's payment details and status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		payment, err := client.Deposit(ctx, args[0])
		if err != nil {
			if errors.Is(err, api.ErrServer) {
				presenter.Error(err, fmt.Sprintf("Deposit %s not found", args[0]))
			} else {
				presenter.Error(err, "Failed to fetch deposit")
			}
			os.Exit(1)
		}

		status, err := client.DepositStatus(ctx, args[0])
		if err != nil {
			status = nil
		}
		printDepositInfo(args[0], payment, status)
	},
}

var depositStatusCmd = &cobra.Command{
	Use:   "status <deposit-id>",
	Short: "Check the current status of a deposit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		status, err := client.DepositStatus(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch deposit status")
			os.Exit(1)
		}
		presenter.Info(fmt.Sprintf("Received: %g", status.Received))
		presenter.Info(fmt.Sprintf("Confirmations: %d", status.Confirmations))
		presenter.Info(fmt.Sprintf("All Received: %v", status.ReceivedAll))
	},
}

func init() {
	depositCmd.AddCommand(depositRatesCmd)
	depositCmd.AddCommand(depositPendingCmd)
	depositCmd.AddCommand(depositCreateCmd)
	depositCmd.AddCommand(depositGetCmd)
	depositCmd.AddCommand(depositStatusCmd)
}

// printDepositInfo renders the payment details plus a terminal QR code for
// the payment address.
func printDepositInfo(depositID string, payment *api.DepositPayment, status *api.DepositStatus) {
	presenter.Info(fmt.Sprintf("Deposit ID : %s", depositID))
	presenter.Info(fmt.Sprintf("Created    : %s", format.Timestamp(payment.CreatedAt)))
	presenter.Info(fmt.Sprintf("XMR        : %g", payment.XMR))
	presenter.Info(fmt.Sprintf("EUR        : %s", format.EUR(payment.EUR)))
	presenter.Info(fmt.Sprintf("Address    : %s", payment.Address))

	if payment.Address != "" {
		qrterminal.GenerateWithConfig(payment.Address, qrterminal.Config{
			Level:     qrterminal.L,
			Writer:    os.Stdout,
			BlackChar: qrterminal.BLACK,
			WhiteChar: qrterminal.WHITE,
			QuietZone: 1,
		})
	}

	if status != nil {
		presenter.Info(fmt.Sprintf("Received: %g, Confirmations: %d, All Received: %v",
			status.Received, status.Confirmations, status.ReceivedAll))
	}
}

func createDeposit(ctx context.Context) {
	client, _ := activeClient(ctx)

	raw := presenter.Prompt("Amount to deposit", "")
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || amount < 0 {
		presenter.Error(errors.Errorf("invalid amount %q", raw), "Deposit aborted")
		os.Exit(1)
	}

	currency := strings.ToLower(presenter.Prompt("Currency (eur/xmr)", "eur"))
	if currency != "eur" && currency != "xmr" {
		presenter.Error(errors.Errorf("invalid currency %q, must be eur or xmr", currency), "Deposit aborted")
		os.Exit(1)
	}

	depositID, err := client.CreateDeposit(ctx, amount, currency)
	if err != nil {
		presenter.Error(err, "Failed to create deposit")
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Deposit created with ID: %s", depositID))
}
