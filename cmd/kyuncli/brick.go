package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/format"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var brickCmd = &cobra.Command{
	Use:   "brick",
	Short: "Manage Brick storage volumes",
	Long:  `Buy, inspect, grow, and manage the lifecycle of Brick storage volumes.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var brickListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all owned Bricks",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		bricks, err := client.Bricks(ctx)
		if err != nil {
			presenter.Error(err, "Failed to fetch Bricks")
			os.Exit(1)
		}
		if len(bricks) == 0 {
			presenter.Info("No Bricks owned.")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tNEXT CYCLE\tSIZE (GB)\tUSED (GB)\tDATACENTER\tSUSPENDED")
		fmt.Fprintln(tw, "--\t----\t-----\t----------\t---------\t---------\t----------\t---------")
		for _, b := range bricks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%g\t%s\t%v\n",
				b.ID, b.Name, format.EUR(b.Price), format.Timestamp(b.NextCycle),
				b.Gb, b.UsedSpaceGb, b.Datacenter, b.Suspended)
		}
		tw.Flush()
	},
}

var brickGetCmd = &cobra.Command{
	Use:   "get <brick-id>",
	Short: "Show detailed information about a Brick",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		b, err := client.Brick(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch Brick details")
			os.Exit(1)
		}

		presenter.Section("Brick " + b.ID)
		presenter.Info(fmt.Sprintf("Name           : %s", b.Name))
		presenter.Info(fmt.Sprintf("Datacenter     : %s", b.Datacenter))
		presenter.Info(fmt.Sprintf("Price          : %s", format.EUR(b.Price)))
		presenter.Info(fmt.Sprintf("Next Cycle     : %s", format.Timestamp(b.NextCycle)))
		presenter.Info(fmt.Sprintf("Size (GB)      : %g", b.Gb))
		presenter.Info(fmt.Sprintf("Used Space (GB): %g", b.UsedSpaceGb))
		presenter.Info(fmt.Sprintf("Suspended      : %v", b.Suspended))
		if b.Suspended {
			presenter.Info(fmt.Sprintf("Suspended At   : %s", format.Timestamp(b.SuspendedAt)))
		}
		if b.ServiceID != "" {
			presenter.Info(fmt.Sprintf("Attached To    : Danbo %s", b.ServiceID))
		}
	},
}

var brickBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy a new Brick",
	Run: func(cmd *cobra.Command, _ []string) {
		buyBrick(cmd.Context())
	},
}

var brickDeleteCmd = &cobra.Command{
	Use:   "delete <brick-id>",
	Short: "Delete a Brick permanently",
	Long:  `Delete a Brick and all its data permanently. This action cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		presenter.Warning("This will DELETE the Brick and ALL DATA permanently!")
		presenter.Warning("This action CANNOT be undone!")
		if !presenter.Confirm("Are you sure you want to delete this Brick?") {
			presenter.Info("Operation cancelled.")
			return
		}

		otp := presenter.PromptHidden("OTP code (if 2FA enabled)")

		if err := client.DeleteBrick(ctx, args[0], otp); err != nil {
			switch {
			case errors.Is(err, api.ErrUnauthorized):
				presenter.Error(err, "Failed to delete Brick: incorrect 2FA code")
			case errors.Is(err, api.ErrNotFound):
				presenter.Error(err, "Failed to delete Brick: Brick not found")
			case errors.Is(err, api.ErrOTPRequired):
				presenter.Error(err, "Failed to delete Brick: OTP is required")
			case errors.Is(err, api.ErrBadRequest):
				presenter.Error(err, "Failed to delete Brick: it must be detached from its Danbo first")
			default:
				presenter.Error(err, "Failed to delete Brick")
			}
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Brick %s has been deleted", args[0]))
	},
}

var brickGrowCmd = &cobra.Command{
	Use:   "grow <brick-id>",
	Short: "Grow a Brick by adding more storage",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		growBrick(cmd.Context(), args[0])
	},
}

var brickMaxGrowCmd = &cobra.Command{
	Use:   "max-grow <brick-id>",
	Short: "Show the maximum GB the Brick can grow by",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		maxGb, err := client.BrickMaxGrow(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to get max grow")
			os.Exit(1)
		}
		presenter.Info(fmt.Sprintf("Maximum growth for Brick %s: %g GB", args[0], maxGb))
	},
}

var brickUnsuspendCmd = &cobra.Command{
	Use:   "unsuspend <brick-id>",
	Short: "Pay to unsuspend a suspended Brick",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.PayToUnsuspendBrick(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to unsuspend Brick")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Payment processed. Brick %s should be unsuspended shortly.", args[0]))
	},
}

func init() {
	brickCmd.AddCommand(brickListCmd)
	brickCmd.AddCommand(brickGetCmd)
	brickCmd.AddCommand(brickBuyCmd)
	brickCmd.AddCommand(brickDeleteCmd)
	brickCmd.AddCommand(brickGrowCmd)
	brickCmd.AddCommand(brickMaxGrowCmd)
	brickCmd.AddCommand(brickUnsuspendCmd)
}

func buyBrick(ctx context.Context) {
	client, _ := activeClient(ctx)

	gb := promptInt("Brick size in GB (min 250)", 250)
	datacenter := presenter.Prompt("Datacenter (e.g. wa/ro)", "")

	if gb < 250 {
		presenter.Error(errors.New("minimum Brick size is 250 GB"), "Invalid size")
		os.Exit(1)
	}
	if datacenter == "" {
		presenter.Error(errors.New("datacenter is required"), "Purchase aborted")
		os.Exit(1)
	}

	prices, err := client.DatacenterPrices(ctx, datacenter)
	if err != nil {
		presenter.Error(err, "Failed to fetch datacenter prices")
		os.Exit(1)
	}
	total := float64(gb) / 1000 * prices.HddTb

	presenter.Info(fmt.Sprintf("Buying %d GB Brick in datacenter %q", gb, datacenter))
	presenter.Info(fmt.Sprintf("Monthly cost: %s", format.EUR(total)))

	if !presenter.Confirm("Proceed with purchase?") {
		presenter.Info("Operation cancelled.")
		return
	}

	brickID, err := client.BuyBrick(ctx, gb, datacenter)
	if err != nil {
		if errors.Is(err, api.ErrServer) {
			presenter.Error(err, "Failed to buy Brick: insufficient stock in the selected datacenter")
		} else {
			presenter.Error(err, "Failed to buy Brick")
		}
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Brick created with ID: %s", brickID))
}

func growBrick(ctx context.Context, brickID string) {
	client, _ := activeClient(ctx)

	addGb := promptInt("GB to add (min 1)", 1)
	if addGb < 1 {
		presenter.Error(errors.New("must add at least 1 GB"), "Invalid size")
		os.Exit(1)
	}

	b, err := client.Brick(ctx, brickID)
	if err != nil {
		presenter.Error(err, "Failed to fetch Brick")
		os.Exit(1)
	}
	prices, err := client.DatacenterPrices(ctx, b.Datacenter)
	if err != nil {
		presenter.Error(err, "Failed to fetch datacenter prices")
		os.Exit(1)
	}

	fullCost := float64(int(float64(addGb) / 1000 * prices.HddTb))
	prorated := fullCost
	if b.NextCycle != "" && fullCost != 0 {
		prorated = format.ProratedCost(fullCost, b.NextCycle)
	}

	presenter.Info(fmt.Sprintf("Growing Brick %s by %d GB", brickID, addGb))
	presenter.Info(fmt.Sprintf("Total charge today: %s", format.EUR(prorated)))
	presenter.Info(fmt.Sprintf("Total cost next cycle: %s", format.EUR(fullCost)))
	if b.NextCycle != "" && fullCost != 0 {
		presenter.Info(fmt.Sprintf("Time remaining until next cycle: %s", format.TimeRemaining(b.NextCycle)))
	}

	if !presenter.Confirm("Proceed with growing the Brick?") {
		presenter.Info("Operation cancelled.")
		return
	}

	if err := client.GrowBrick(ctx, brickID, addGb); err != nil {
		presenter.Error(err, "Failed to grow Brick")
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Brick %s grown by %d GB", brickID, addGb))
}
