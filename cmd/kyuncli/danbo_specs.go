package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/format"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var danboSpecsCmd = &cobra.Command{
	Use:   "specs",
	Short: "Manage specs (cores, RAM, disk) of a Danbo",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var danboSpecsMaxUpgradeCmd = &cobra.Command{
	Use:   "max-upgrade <danbo-id>",
	Short: "Show the largest specs the Danbo can be upgraded to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		specs, err := client.DanboMaxUpgrade(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to get max upgrade")
			os.Exit(1)
		}
		presenter.Info(fmt.Sprintf("Max upgrade for Danbo %s:", args[0]))
		presenter.Info(fmt.Sprintf("  Cores: %d", specs.Cores))
		presenter.Info(fmt.Sprintf("  RAM  : %g GB", specs.RAM))
		presenter.Info(fmt.Sprintf("  Disk : %d GB", specs.Disk))
	},
}

var danboSpecsChangeCmd = &cobra.Command{
	Use:   "change <danbo-id>",
	Short: "Interactively change specs with a cost preview",
	Long:  `Change a Danbo's specs. The prorated charge (or refund) for the current cycle and the new monthly cost are shown before confirming.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		changeDanboSpecs(cmd.Context(), args[0])
	},
}

var danboPowerCmd = &cobra.Command{
	Use:   "power",
	Short: "Manage the power state of a Danbo",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func newPowerCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <danbo-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			client, _ := activeClient(ctx)

			if err := client.ChangeDanboPower(ctx, args[0], action); err != nil {
				presenter.Error(err, "Failed to change power state")
				os.Exit(1)
			}
			presenter.Success(fmt.Sprintf("Power action %q sent to Danbo %s", action, args[0]))
		},
	}
}

func init() {
	danboSpecsCmd.AddCommand(danboSpecsMaxUpgradeCmd)
	danboSpecsCmd.AddCommand(danboSpecsChangeCmd)

	danboPowerCmd.AddCommand(newPowerCmd("start", "Start a Danbo"))
	danboPowerCmd.AddCommand(newPowerCmd("stop", "Stop a Danbo"))
	danboPowerCmd.AddCommand(newPowerCmd("shutdown", "Gracefully shut down a Danbo"))
	danboPowerCmd.AddCommand(newPowerCmd("reboot", "Reboot a Danbo"))
}

func changeDanboSpecs(ctx context.Context, danboID string) {
	client, _ := activeClient(ctx)

	d, err := client.Danbo(ctx, danboID)
	if err != nil {
		presenter.Error(err, "Failed to fetch Danbo")
		os.Exit(1)
	}
	current, err := client.DanboSpecs(ctx, danboID)
	if err != nil {
		presenter.Error(err, "Failed to fetch current specs")
		os.Exit(1)
	}

	next := api.Specs{
		Cores: promptInt("Cores", current.Cores),
		RAM:   promptFloat("RAM (GB)", current.RAM),
		Disk:  promptInt("Disk (GB)", current.Disk),
	}

	if err := validateSpecs(next); err != nil {
		presenter.Error(err, "Invalid specs")
		os.Exit(1)
	}

	prices, err := client.DatacenterPrices(ctx, d.Datacenter)
	if err != nil {
		presenter.Error(err, "Failed to fetch datacenter prices")
		os.Exit(1)
	}

	// Disk is priced per TB; the API reports GB.
	coresDelta := float64(next.Cores-current.Cores) * prices.Core
	ramDelta := (next.RAM - current.RAM) * prices.RAMGb
	diskDelta := float64(next.Disk-current.Disk) / 1024 * prices.DiskTb
	fullDelta := coresDelta + ramDelta + diskDelta

	newMonthly := float64(next.Cores)*prices.Core + next.RAM*prices.RAMGb + float64(next.Disk)/1024*prices.DiskTb

	prorated := fullDelta
	factor := 1.0
	if d.NextCycle != "" && fullDelta != 0 {
		prorated = format.ProratedCost(fullDelta, d.NextCycle)
		factor = prorated / fullDelta
	}

	presenter.Section(fmt.Sprintf("Updating Danbo %s specs", danboID))
	presenter.Info(fmt.Sprintf("  Cores: %d -> %d (%s)", current.Cores, next.Cores, format.EUR(float64(int(coresDelta*factor)))))
	presenter.Info(fmt.Sprintf("  RAM  : %g -> %g (%s)", current.RAM, next.RAM, format.EUR(float64(int(ramDelta*factor)))))
	presenter.Info(fmt.Sprintf("  Disk : %d -> %d (%s)", current.Disk, next.Disk, format.EUR(float64(int(diskDelta*factor)))))

	switch {
	case fullDelta > 0:
		presenter.Info(fmt.Sprintf("Total charge today: %s", format.EUR(prorated)))
	case fullDelta < 0:
		presenter.Info(fmt.Sprintf("Total refund today: %s", format.EUR(prorated)))
	default:
		presenter.Info(fmt.Sprintf("Total cost today: %s", format.EUR(prorated)))
	}
	presenter.Info(fmt.Sprintf("Total cost next cycle: %s", format.EUR(newMonthly)))
	if d.NextCycle != "" && fullDelta != 0 {
		presenter.Info(fmt.Sprintf("Time remaining until next cycle: %s", format.TimeRemaining(d.NextCycle)))
	}

	if !presenter.Confirm("Proceed with spec change?") {
		presenter.Info("Operation cancelled.")
		return
	}

	if err := client.ChangeDanboSpecs(ctx, danboID, next); err != nil {
		switch {
		case errors.Is(err, api.ErrBadRequest), errors.Is(err, api.ErrUnprocessable):
			presenter.Error(err, "Failed to change specs: not enough balance, disk being decreased, or specs out of range")
		case errors.Is(err, api.ErrServer):
			presenter.Error(err, "Failed to change specs: the Danbo might be powered on. Stop it before resizing")
		default:
			presenter.Error(err, "Failed to change specs")
		}
		os.Exit(1)
	}
	presenter.Success("Specs updated successfully")
}
