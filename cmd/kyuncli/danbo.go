package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"
	"github.com/kyun-host/kyuncli/pkg/api"
	"github.com/kyun-host/kyuncli/pkg/format"
	"github.com/kyun-host/kyuncli/pkg/logger"
	"github.com/kyun-host/kyuncli/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var danboCmd = &cobra.Command{
	Use:   "danbo",
	Short: "Manage Danbo virtual servers",
	Long:  `Buy, inspect, resize, and manage the lifecycle of Danbo virtual servers.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var danboListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all owned Danbos",
	Run: func(cmd *cobra.Command, _ []string) {
		listDanbos(cmd.Context())
	},
}

var danboBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy a new Danbo",
	Long:  `Interactively buy a new Danbo: pick a datacenter, choose specs within the available stock, review the monthly cost, and confirm.`,
	Run: func(cmd *cobra.Command, _ []string) {
		buyDanbo(cmd.Context())
	},
}

var danboGetCmd = &cobra.Command{
	Use:   "get <danbo-id>",
	Short: "Show detailed information about a Danbo",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showDanbo(cmd.Context(), args[0])
	},
}

var danboRenameCmd = &cobra.Command{
	Use:   "rename <danbo-id> <new-name>",
	Short: "Rename a Danbo (also changes the hostname)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := activeClient(ctx)
		if err := client.RenameDanbo(ctx, args[0], args[1]); err != nil {
			presenter.Error(err, "Failed to rename Danbo")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Danbo %s renamed to %q", args[0], args[1]))
	},
}

var danboStatsCmd = &cobra.Command{
	Use:   "stats <danbo-id>",
	Short: "Display Danbo resource usage",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		minutes, _ := cmd.Flags().GetInt("minutes")
		showDanboStats(cmd.Context(), args[0], minutes)
	},
}

func init() {
	danboStatsCmd.Flags().IntP("minutes", "m", 10, "Number of minutes of stats to display")

	danboCmd.AddCommand(danboListCmd)
	danboCmd.AddCommand(danboBuyCmd)
	danboCmd.AddCommand(danboGetCmd)
	danboCmd.AddCommand(danboRenameCmd)
	danboCmd.AddCommand(danboStatsCmd)
	danboCmd.AddCommand(danboIPCmd)
	danboCmd.AddCommand(danboSpecsCmd)
	danboCmd.AddCommand(danboPowerCmd)
	danboCmd.AddCommand(danboManagementCmd)
	danboCmd.AddCommand(danboSubdomainsCmd)
	danboCmd.AddCommand(danboBandwidthCmd)
	danboCmd.AddCommand(danboSSHCmd)
	danboCmd.AddCommand(danboBricksCmd)
}

// validateSpecs collects every violation at once so the user can fix a bad
// request in one pass.
func validateSpecs(specs api.Specs) error {
	var result *multierror.Error
	if specs.Cores < 1 {
		result = multierror.Append(result, errors.New("cores must be at least 1"))
	}
	if specs.RAM < 0.5 {
		result = multierror.Append(result, errors.New("RAM must be at least 0.5 GB"))
	}
	if math.Mod(specs.RAM*2, 1) != 0 {
		result = multierror.Append(result, errors.New("RAM must be in steps of 0.5 GB"))
	}
	if specs.RAM > 0.5 && specs.RAM < 1.0 {
		result = multierror.Append(result, errors.New("RAM between 0.5 and 1 GB is not available"))
	}
	if specs.Disk < 10 {
		result = multierror.Append(result, errors.New("disk must be at least 10 GB"))
	}
	return result.ErrorOrNil()
}

func promptInt(question string, def int) int {
	raw := presenter.Prompt(question, strconv.Itoa(def))
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Invalid number %q", raw))
		os.Exit(1)
	}
	return v
}

func promptFloat(question string, def float64) float64 {
	raw := presenter.Prompt(question, strconv.FormatFloat(def, 'f', -1, 64))
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Invalid number %q", raw))
		os.Exit(1)
	}
	return v
}

func listDanbos(ctx context.Context) {
	client, _ := activeClient(ctx)

	danbos, err := client.Danbos(ctx)
	if err != nil {
		presenter.Error(err, "Failed to fetch Danbos")
		os.Exit(1)
	}
	if len(danbos) == 0 {
		presenter.Info("No Danbos owned.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tNEXT CYCLE\tCANCELLED\tSUSPENDED\tUPTIME (HRS)\tDATACENTER\tPRIMARY IP")
	fmt.Fprintln(tw, "--\t----\t-----\t----------\t---------\t---------\t------------\t----------\t----------")

	for _, d := range danbos {
		primaryIP := "N/A"
		ipPrice := 0.0
		ips, err := client.DanboIPs(ctx, d.ID)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("danbo", d.ID).Debug("failed to fetch ips")
		} else {
			for _, ip := range ips {
				ipPrice += ip.Price
				if ip.Primary {
					primaryIP = ip.IP
				}
			}
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%v\t%v\t%.2f\t%s\t%s\n",
			d.ID, d.Name, format.EUR(d.Price+ipPrice), format.Timestamp(d.NextCycle),
			d.Cancelled, d.Suspended, d.Uptime/3600, d.Datacenter, primaryIP)
	}
	tw.Flush()
}

func buyDanbo(ctx context.Context) {
	client, _ := activeClient(ctx)

	datacenter := presenter.Prompt("Datacenter (e.g. wa/ro)", "")
	if datacenter == "" {
		presenter.Error(errors.New("datacenter is required"), "Purchase aborted")
		os.Exit(1)
	}

	if avail, err := client.DatacenterAvailableSpecs(ctx, datacenter, api.Specs{}); err != nil {
		presenter.Warning(fmt.Sprintf("Could not fetch available specs: %v", err))
	} else {
		presenter.Info(fmt.Sprintf("Available specs in %s:", datacenter))
		presenter.Info(fmt.Sprintf("  Max cores: %d", avail.Cores))
		presenter.Info(fmt.Sprintf("  Max RAM: %g GB", avail.RAM))
		presenter.Info(fmt.Sprintf("  Max disk: %d GB", avail.Disk))
	}

	specs := api.Specs{
		Cores: promptInt("CPU cores (min 1)", 1),
		RAM:   promptFloat("RAM in GB (min 0.5)", 1),
		Disk:  promptInt("Disk in GB (min 10)", 10),
	}
	fours := promptInt("Additional IPv4 addresses (optional)", 0)

	if err := validateSpecs(specs); err != nil {
		presenter.Error(err, "Invalid specs")
		os.Exit(1)
	}
	if fours < 0 {
		presenter.Error(errors.New("additional IPv4 count cannot be negative"), "Invalid specs")
		os.Exit(1)
	}

	prices, err := client.DatacenterPrices(ctx, datacenter)
	if err != nil {
		presenter.Error(err, "Failed to fetch datacenter prices")
		os.Exit(1)
	}

	coreCost := float64(specs.Cores) * prices.Core
	ramCost := specs.RAM * prices.RAMGb
	diskCost := float64(specs.Disk) * prices.DiskTb / 1000
	ipCost := float64(fours) * prices.IP
	total := coreCost + ramCost + diskCost + ipCost

	presenter.Section("Buying Danbo")
	presenter.Info(fmt.Sprintf("  Datacenter: %s", datacenter))
	presenter.Info(fmt.Sprintf("  Cores: %d (%s)", specs.Cores, format.EUR(coreCost)))
	presenter.Info(fmt.Sprintf("  RAM: %g GB (%s)", specs.RAM, format.EUR(ramCost)))
	presenter.Info(fmt.Sprintf("  Disk: %d GB (%s)", specs.Disk, format.EUR(diskCost)))
	if fours > 0 {
		presenter.Info(fmt.Sprintf("  Additional IPs: %d (%s)", fours, format.EUR(ipCost)))
	}
	presenter.Info(fmt.Sprintf("Monthly cost: %s", format.EUR(total)))

	if !presenter.Confirm("Proceed with purchase?") {
		presenter.Info("Operation cancelled.")
		return
	}

	danboID, err := client.BuyDanbo(ctx, datacenter, specs, fours)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrServer):
			presenter.Error(err, "Failed to buy Danbo: insufficient stock in the selected datacenter")
		case errors.Is(err, api.ErrBadRequest):
			presenter.Error(err, "Failed to buy Danbo: not enough balance")
		default:
			presenter.Error(err, "Failed to buy Danbo")
		}
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Danbo purchased with ID: %s", danboID))
}

func showDanbo(ctx context.Context, danboID string) {
	client, _ := activeClient(ctx)

	d, err := client.Danbo(ctx, danboID)
	if err != nil {
		presenter.Error(err, "Failed to fetch Danbo details")
		os.Exit(1)
	}
	specs, err := client.DanboSpecs(ctx, danboID)
	if err != nil {
		presenter.Error(err, "Failed to fetch Danbo specs")
		os.Exit(1)
	}
	ips, err := client.DanboIPs(ctx, danboID)
	if err != nil {
		presenter.Error(err, "Failed to fetch Danbo IPs")
		os.Exit(1)
	}

	ipPrice := 0.0
	for _, ip := range ips {
		ipPrice += ip.Price
	}

	presenter.Section("Danbo " + d.ID)
	presenter.Info(fmt.Sprintf("Name           : %s", d.Name))
	presenter.Info(fmt.Sprintf("Datacenter     : %s", d.Datacenter))
	presenter.Info(fmt.Sprintf("Node Hostname  : %s", d.NodeHostname))
	presenter.Info(fmt.Sprintf("VM ID          : %s", d.VMID))
	presenter.Info(fmt.Sprintf("Price          : %s", format.EUR(d.Price+ipPrice)))
	presenter.Info(fmt.Sprintf("Next Cycle     : %s", format.Timestamp(d.NextCycle)))
	if d.Suspended {
		presenter.Info(fmt.Sprintf("Suspended At   : %s", format.Timestamp(d.SuspendedAt)))
	}
	presenter.Info(fmt.Sprintf("Cancelled      : %v", d.Cancelled))
	presenter.Info(fmt.Sprintf("Suspended      : %v", d.Suspended))
	presenter.Info(fmt.Sprintf("Has ISO        : %v", d.HasISO))
	presenter.Info(fmt.Sprintf("Force Limit    : %v", d.ForceLimit))
	presenter.Info(fmt.Sprintf("OS             : %s", d.OS))
	presenter.Separator()

	presenter.Info("Specs:")
	presenter.Info(fmt.Sprintf("  Cores        : %d", specs.Cores))
	presenter.Info(fmt.Sprintf("  RAM (GB)     : %g", specs.RAM))
	presenter.Info(fmt.Sprintf("  Disk (GB)    : %d", specs.Disk))
	presenter.Separator()

	if len(ips) == 0 {
		presenter.Info("No IPv4 addresses assigned.")
	} else {
		presenter.Info("IP Addresses:")
		for _, ip := range ips {
			line := fmt.Sprintf("  - %s (Primary: %v, Gateway: %s", ip.IP, ip.Primary, ip.Gateway)
			if names, err := client.DanboReverseDNS(ctx, danboID, ip.IP); err == nil && len(names) > 0 {
				line += ", Reverse DNS: " + strings.Join(names, ", ")
			}
			presenter.Info(line + ")")
		}
	}

	if subnet, err := client.DanboIPv6Subnet(ctx, danboID); err == nil {
		presenter.Info(fmt.Sprintf("IPv6 Subnet: %s", subnet))
	}
	presenter.Separator()

	if limit, err := client.DanboBandwidthLimit(ctx, danboID); err != nil {
		presenter.Info("Bandwidth Limit: Unknown")
	} else if limit > 0 {
		presenter.Info(fmt.Sprintf("Bandwidth Limit: %g Mb/s", limit))
	} else {
		presenter.Info("Bandwidth Limit: Unlimited")
	}
	presenter.Separator()

	if subdomains, err := client.DanboSubdomains(ctx, danboID); err == nil && len(subdomains) > 0 {
		presenter.Info("Subdomains:")
		for _, sd := range subdomains {
			presenter.Info(fmt.Sprintf("  - %s.%s (IP: %s, ID: %s)", sd.Name, sd.Domain, sd.IP, sd.ID))
		}
		presenter.Separator()
	}

	if bricks, err := client.DanboBricks(ctx, danboID); err == nil && len(bricks) > 0 {
		presenter.Info("Attached Bricks:")
		totalBrickPrice := 0.0
		for _, b := range bricks {
			totalBrickPrice += b.Price
			presenter.Info(fmt.Sprintf("  - %s", b.Name))
			presenter.Info(fmt.Sprintf("    ID: %s", b.ID))
			presenter.Info(fmt.Sprintf("    Size: %g GB, Used: %g GB", b.Gb, b.UsedSpaceGb))
			presenter.Info(fmt.Sprintf("    Price: %s", format.EUR(b.Price)))
			presenter.Info(fmt.Sprintf("    Datacenter: %s", b.Datacenter))
			presenter.Info(fmt.Sprintf("    Suspended: %v", b.Suspended))
		}
		presenter.Info(fmt.Sprintf("  Total Brick Cost: %s", format.EUR(totalBrickPrice)))
		presenter.Separator()
	}
}

func showDanboStats(ctx context.Context, danboID string, minutes int) {
	client, _ := activeClient(ctx)

	stats, err := client.DanboStats(ctx, danboID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			presenter.Error(err, "Danbo not found")
		} else {
			presenter.Error(err, "Failed to fetch statistics")
		}
		os.Exit(1)
	}
	if len(stats) == 0 {
		presenter.Info("No statistics available for this Danbo.")
		return
	}

	if minutes <= 0 || minutes > len(stats) {
		minutes = len(stats)
	}

	latest := stats[len(stats)-1]
	presenter.Section(fmt.Sprintf("Danbo %s - Resource Usage", danboID))
	presenter.Info(fmt.Sprintf("Last updated: %s", format.UnixTimestamp(latest.Time)))
	presenter.Info("")

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCPU\tRAM\tNET IN\tNET OUT\tDISK READ\tDISK WRITE")
	fmt.Fprintln(tw, "----\t---\t---\t------\t-------\t---------\t----------")

	recent := stats[len(stats)-minutes:]
	for i := len(recent) - 1; i >= 0; i-- {
		s := recent[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			format.UnixTimestamp(s.Time), format.Percent(s.CPU), format.Bytes(s.Mem),
			format.Bytes(s.NetIn), format.Bytes(s.NetOut), format.Bytes(s.DiskRead), format.Bytes(s.DiskWrite))
	}
	tw.Flush()
}
