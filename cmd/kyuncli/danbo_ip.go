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

var danboIPCmd = &cobra.Command{
	Use:   "ip",
	Short: "Manage IPv4 addresses of a Danbo",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var danboIPListCmd = &cobra.Command{
	Use:   "list <danbo-id>",
	Short: "List the IPv4 addresses of a Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		ips, err := client.DanboIPs(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch IPs")
			os.Exit(1)
		}
		if len(ips) == 0 {
			presenter.Info("No IPv4 addresses assigned.")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "IP\tPRIMARY\tGATEWAY\tPRICE")
		fmt.Fprintln(tw, "--\t-------\t-------\t-----")
		for _, ip := range ips {
			fmt.Fprintf(tw, "%s\t%v\t%s\t%s\n", ip.IP, ip.Primary, ip.Gateway, format.EUR(ip.Price))
		}
		tw.Flush()
	},
}

var danboIPAddCmd = &cobra.Command{
	Use:   "add <danbo-id>",
	Short: "Add an IPv4 to a Danbo (will be charged)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		presenter.Info("Adding an IPv4 address costs €2.00/month.")
		if !presenter.Confirm("Proceed with adding IP?") {
			presenter.Info("Operation cancelled.")
			return
		}

		if err := client.AddDanboIP(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to add IP")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("IPv4 added to Danbo %s", args[0]))
	},
}

var danboIPRemoveCmd = &cobra.Command{
	Use:   "remove <danbo-id> <ip>",
	Short: "Remove an IPv4 from a Danbo (may be refunded)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.RemoveDanboIP(ctx, args[0], args[1]); err != nil {
			if errors.Is(err, api.ErrServer) {
				presenter.Error(err, "Failed to remove IP: the Danbo needs to be powered off first")
			} else {
				presenter.Error(err, "Failed to remove IP")
			}
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("IPv4 %s removed from Danbo %s", args[1], args[0]))
	},
}

var danboIPSetPrimaryCmd = &cobra.Command{
	Use:   "set-primary <danbo-id> <ip>",
	Short: "Set an IPv4 as the primary address of a Danbo",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.SetDanboPrimaryIP(ctx, args[0], args[1]); err != nil {
			presenter.Error(err, "Failed to set primary IP")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("IP %s is now the primary IP of Danbo %s", args[1], args[0]))
	},
}

var danboIPReverseCmd = &cobra.Command{
	Use:   "reverse <danbo-id> <ip>",
	Short: "Show the reverse DNS names of an address",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		names, err := client.DanboReverseDNS(ctx, args[0], args[1])
		if err != nil {
			presenter.Error(err, "Failed to fetch reverse DNS")
			os.Exit(1)
		}
		if len(names) == 0 {
			presenter.Info("No reverse DNS names set.")
			return
		}
		for _, name := range names {
			presenter.Info(name)
		}
	},
}

var danboIPSixCmd = &cobra.Command{
	Use:   "six <danbo-id>",
	Short: "Show the IPv6 subnet of a Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		subnet, err := client.DanboIPv6Subnet(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch IPv6 subnet")
			os.Exit(1)
		}
		presenter.Info(subnet)
	},
}

func init() {
	danboIPCmd.AddCommand(danboIPListCmd)
	danboIPCmd.AddCommand(danboIPAddCmd)
	danboIPCmd.AddCommand(danboIPRemoveCmd)
	danboIPCmd.AddCommand(danboIPSetPrimaryCmd)
	danboIPCmd.AddCommand(danboIPReverseCmd)
	danboIPCmd.AddCommand(danboIPSixCmd)
}
