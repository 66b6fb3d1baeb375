// Package format holds small display helpers shared by the CLI commands:
// euro amounts (the API returns cents), byte counts, timestamps, and the
// prorated-cost arithmetic used when changing paid resources mid-cycle.
package format

import (
	"fmt"
	"strings"
	"time"
)

// EUR renders an amount of euro cents as "€12.34".
func EUR(cents float64) string {
	return fmt.Sprintf("€%.2f", cents/100)
}

// Bytes renders a byte count with a binary unit suffix.
func Bytes(n float64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%.0f B", n)
	}
	div, exp := float64(unit), 0
	for v := n / unit; v >= unit && exp < 4; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", n/div, "KMGTP"[exp])
}

// Percent renders a 0..1 ratio as a percentage.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// Timestamp renders an RFC3339 timestamp from the API for display, or "N/A"
// when empty or unparseable.
func Timestamp(raw string) string {
	if raw == "" {
		return "N/A"
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "N/A"
	}
	return ts.Format("2006-01-02 15:04:05")
}

// UnixTimestamp renders a unix-seconds timestamp in UTC.
func UnixTimestamp(sec int64) string {
	if sec <= 0 {
		return "N/A"
	}
	return time.Unix(sec, 0).UTC().Format("2006-01-02 15:04:05 UTC")
}

// TimeRemaining describes how long remains until the nextCycle timestamp,
// e.g. "12 days, 4 hours". Unparseable input yields "Unknown".
func TimeRemaining(nextCycle string) string {
	ts, err := time.Parse(time.RFC3339, nextCycle)
	if err != nil {
		return "Unknown"
	}
	remaining := time.Until(ts)
	if remaining <= 0 {
		return "0 days"
	}
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	if days > 0 {
		return fmt.Sprintf("%d days, %d hours", days, hours)
	}
	return fmt.Sprintf("%d hours", hours)
}

// ProratedCost charges only for the time remaining until nextCycle,
// assuming a 30-day billing month as the service does. Falls back to the
// full cost when the timestamp cannot be parsed.
func ProratedCost(fullMonthlyCents float64, nextCycle string) float64 {
	ts, err := time.Parse(time.RFC3339, nextCycle)
	if err != nil {
		return fullMonthlyCents
	}
	remaining := time.Until(ts)
	if remaining <= 0 {
		return 0
	}
	daysRemaining := remaining.Hours() / 24
	return float64(int((daysRemaining / 30) * fullMonthlyCents))
}

// RedactKey shows only the first few characters of an API key so listings
// never print the full secret.
func RedactKey(key string) string {
	if len(key) <= 6 {
		return strings.Repeat("*", len(key))
	}
	return key[:6] + strings.Repeat("*", 6)
}
