package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/format"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var danboBricksCmd = &cobra.Command{
	Use:   "bricks",
	Short: "Manage Bricks attached to a Danbo",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var danboBricksListCmd = &cobra.Command{
	Use:   "list <danbo-id>",
	Short: "List all Bricks attached to a Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		bricks, err := client.DanboBricks(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch attached Bricks")
			os.Exit(1)
		}
		if len(bricks) == 0 {
			presenter.Info("No Bricks attached to this Danbo.")
			return
		}

		presenter.Info(fmt.Sprintf("Bricks attached to Danbo %s:", args[0]))
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSIZE (GB)\tUSED (GB)\tPRICE")
		fmt.Fprintln(tw, "--\t----\t---------\t---------\t-----")
		for _, b := range bricks {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%s\n", b.ID, b.Name, b.Gb, b.UsedSpaceGb, format.EUR(b.Price))
		}
		tw.Flush()
	},
}

var danboBricksAttachCmd = &cobra.Command{
	Use:   "attach <danbo-id> <brick-id>",
	Short: "Attach a Brick to a Danbo",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.AttachBrick(ctx, args[0], args[1]); err != nil {
			if errors.Is(err, api.ErrServer) {
				presenter.Error(err, "Failed to attach Brick: Brick and Danbo must be in the same datacenter")
			} else {
				presenter.Error(err, "Failed to attach Brick")
			}
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Brick %s attached to Danbo %s", args[1], args[0]))
	},
}

var danboBricksDetachCmd = &cobra.Command{
	Use:   "detach <danbo-id> <brick-id>",
	Short: "Detach a Brick from a Danbo",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.DetachBrick(ctx, args[0], args[1]); err != nil {
			presenter.Error(err, "Failed to detach Brick")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Brick %s detached from Danbo %s", args[1], args[0]))
	},
}

func init() {
	danboBricksCmd.AddCommand(danboBricksListCmd)
	danboBricksCmd.AddCommand(danboBricksAttachCmd)
	danboBricksCmd.AddCommand(danboBricksDetachCmd)
}
