package main

import (
	"fmt"
	"os"

	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var danboManagementCmd = &cobra.Command{
	Use:   "management",
	Short: "Manage the Danbo lifecycle (delete, cancel, resume, unsuspend)",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var danboDeleteCmd = &cobra.Command{
	Use:   "delete <danbo-id>",
	Short: "Delete a Danbo permanently",
	Long:  `Delete a Danbo and all its data permanently. This action cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		presenter.Warning("This will DELETE the Danbo and ALL DATA permanently!")
		presenter.Warning("This action CANNOT be undone!")
		if !presenter.Confirm("Are you sure you want to delete this Danbo?") {
			presenter.Info("Operation cancelled.")
			return
		}

		otp := presenter.PromptHidden("OTP code (if 2FA enabled)")

		if err := client.DeleteDanbo(ctx, args[0], otp); err != nil {
			switch {
			case errors.Is(err, api.ErrUnauthorized):
				presenter.Error(err, "Failed to delete Danbo: incorrect 2FA code")
			case errors.Is(err, api.ErrNotFound):
				presenter.Error(err, "Failed to delete Danbo: Danbo not found")
			case errors.Is(err, api.ErrOTPRequired):
				presenter.Error(err, "Failed to delete Danbo: OTP is required")
			case errors.Is(err, api.ErrBadRequest), errors.Is(err, api.ErrServer):
				presenter.Error(err, "Failed to delete Danbo: IPv4 addresses must be removed first")
			default:
				presenter.Error(err, "Failed to delete Danbo")
			}
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Danbo %s has been deleted", args[0]))
	},
}

var danboCancelCmd = &cobra.Command{
	Use:   "cancel <danbo-id>",
	Short: "Cancel a Danbo (deleted on the next renewal date)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if !presenter.Confirm(fmt.Sprintf("Cancel Danbo %s? It will be deleted on the next renewal date.", args[0])) {
			presenter.Info("Operation cancelled.")
			return
		}

		if err := client.CancelDanbo(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to cancel Danbo")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Danbo %s has been cancelled", args[0]))
	},
}

var danboResumeCmd = &cobra.Command{
	Use:   "resume <danbo-id>",
	Short: "Resume a cancelled Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.ResumeDanbo(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to resume Danbo")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Danbo %s has been resumed", args[0]))
	},
}

var danboUnsuspendCmd = &cobra.Command{
	Use:   "unsuspend <danbo-id>",
	Short: "Pay to unsuspend a suspended Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.PayToUnsuspendDanbo(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to unsuspend Danbo")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Attempted to unsuspend Danbo %s", args[0]))
	},
}

func init() {
	danboManagementCmd.AddCommand(danboDeleteCmd)
	danboManagementCmd.AddCommand(danboCancelCmd)
	danboManagementCmd.AddCommand(danboResumeCmd)
	danboManagementCmd.AddCommand(danboUnsuspendCmd)
}
