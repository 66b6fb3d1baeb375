package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var danboSubdomainsCmd = &cobra.Command{
	Use:   "subdomains",
	Short: "Manage subdomains of a Danbo",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var danboSubdomainsListCmd = &cobra.Command{
	Use:   "list <danbo-id>",
	Short: "List all subdomains of a Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		subs, err := client.DanboSubdomains(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch subdomains")
			os.Exit(1)
		}
		if len(subs) == 0 {
			presenter.Info("No subdomains found.")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tDOMAIN\tIP")
		fmt.Fprintln(tw, "--\t----\t------\t--")
		for _, s := range subs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Domain, s.IP)
		}
		tw.Flush()
	},
}

var danboSubdomainsCreateCmd = &cobra.Command{
	Use:   "create <danbo-id>",
	Short: "Create a subdomain pointing at one of the Danbo's IPs",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		name, _ := cmd.Flags().GetString("name")
		domain, _ := cmd.Flags().GetString("domain")
		ip, _ := cmd.Flags().GetString("ip")

		client, _ := activeClient(ctx)
		if err := client.CreateDanboSubdomain(ctx, args[0], name, domain, ip); err != nil {
			switch {
			case errors.Is(err, api.ErrConflict):
				presenter.Error(err, "Failed to create subdomain: name is already in use")
			case errors.Is(err, api.ErrForbidden):
				presenter.Error(err, "Failed to create subdomain: the Danbo does not have that IP address")
			case errors.Is(err, api.ErrNotFound):
				presenter.Error(err, "Failed to create subdomain: Danbo not found")
			case errors.Is(err, api.ErrServer):
				presenter.Error(err, "Failed to create subdomain: invalid domain")
			default:
				presenter.Error(err, "Failed to create subdomain")
			}
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Subdomain %s.%s created", name, domain))
	},
}

var danboSubdomainsDeleteCmd = &cobra.Command{
	Use:   "delete <danbo-id> <subdomain-id>",
	Short: "Delete a subdomain from a Danbo",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.DeleteDanboSubdomain(ctx, args[0], args[1]); err != nil {
			presenter.Error(err, "Failed to delete subdomain")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Subdomain %s deleted", args[1]))
	},
}

var danboBandwidthCmd = &cobra.Command{
	Use:   "bandwidth",
	Short: "Manage the bandwidth limit of a Danbo",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var danboBandwidthGetCmd = &cobra.Command{
	Use:   "get <danbo-id>",
	Short: "Show the current bandwidth limit in Mb/s",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		limit, err := client.DanboBandwidthLimit(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Failed to fetch bandwidth limit")
			os.Exit(1)
		}
		if limit <= 0 {
			presenter.Info(fmt.Sprintf("Danbo %s has no active bandwidth limit (unlimited).", args[0]))
		} else {
			presenter.Info(fmt.Sprintf("Danbo %s current limit: %g Mb/s", args[0], limit))
		}
	},
}

var danboBandwidthSetCmd = &cobra.Command{
	Use:   "set <danbo-id>",
	Short: "Set a bandwidth limit in Mb/s",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		limit, _ := cmd.Flags().GetFloat64("limit")
		if !cmd.Flags().Changed("limit") {
			limit = promptFloat("New bandwidth limit (Mb/s)", 0)
		}

		if err := client.SetDanboBandwidthLimit(ctx, args[0], limit); err != nil {
			if errors.Is(err, api.ErrBadRequest) || errors.Is(err, api.ErrUnprocessable) {
				presenter.Error(err, "Failed to set bandwidth limit: must be a positive number within datacenter constraints")
			} else {
				presenter.Error(err, "Failed to set bandwidth limit")
			}
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Bandwidth limit set to %g Mb/s for Danbo %s", limit, args[0]))
	},
}

var danboBandwidthClearCmd = &cobra.Command{
	Use:   "clear <danbo-id>",
	Short: "Remove the bandwidth limit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)

		if err := client.ClearDanboBandwidthLimit(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to clear bandwidth limit")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Cleared bandwidth limit for Danbo %s", args[0]))
	},
}

func init() {
	danboSubdomainsCreateCmd.Flags().String("name", "", "Subdomain name (e.g. panel/api)")
	danboSubdomainsCreateCmd.Flags().String("domain", "", "Domain (e.g. kyun.host)")
	danboSubdomainsCreateCmd.Flags().String("ip", "", "IPv4 address to assign to the subdomain")
	danboSubdomainsCreateCmd.MarkFlagRequired("name")
	danboSubdomainsCreateCmd.MarkFlagRequired("domain")
	danboSubdomainsCreateCmd.MarkFlagRequired("ip")

	danboSubdomainsCmd.AddCommand(danboSubdomainsListCmd)
	danboSubdomainsCmd.AddCommand(danboSubdomainsCreateCmd)
	danboSubdomainsCmd.AddCommand(danboSubdomainsDeleteCmd)

	danboBandwidthSetCmd.Flags().Float64("limit", 0, "New bandwidth limit in Mb/s")

	danboBandwidthCmd.AddCommand(danboBandwidthGetCmd)
	danboBandwidthCmd.AddCommand(danboBandwidthSetCmd)
	danboBandwidthCmd.AddCommand(danboBandwidthClearCmd)
}
