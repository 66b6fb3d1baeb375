package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEUR(t *testing.T) {
	tests := []struct {
		cents    float64
		expected string
	}{
		{0, "€0.00"},
		{150, "€1.50"},
		{123456, "€1234.56"},
		// 0.995 sits just below the half in binary, so %.2f rounds down.
		{99.5, "€0.99"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, EUR(tt.cents))
	}
}

func TestBytes(t *testing.T) {
	tests := []struct {
		n        float64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Bytes(tt.n))
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "42.5%", Percent(0.425))
	assert.Equal(t, "0.0%", Percent(0))
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "2026-03-01 12:30:00", Timestamp("2026-03-01T12:30:00Z"))
	assert.Equal(t, "N/A", Timestamp(""))
	assert.Equal(t, "N/A", Timestamp("yesterday"))
}

func TestUnixTimestamp(t *testing.T) {
	assert.Equal(t, "N/A", UnixTimestamp(0))
	assert.Equal(t, "2021-01-01 00:00:00 UTC", UnixTimestamp(1609459200))
}

func TestTimeRemaining(t *testing.T) {
	assert.Equal(t, "Unknown", TimeRemaining("not-a-time"))
	assert.Equal(t, "0 days", TimeRemaining(time.Now().Add(-time.Hour).Format(time.RFC3339)))

	future := time.Now().Add(49 * time.Hour).Format(time.RFC3339)
	assert.Equal(t, "2 days, 0 hours", TimeRemaining(future))

	soon := time.Now().Add(5*time.Hour + time.Minute).Format(time.RFC3339)
	assert.Equal(t, "5 hours", TimeRemaining(soon))
}

func TestProratedCost(t *testing.T) {
	// Unparseable cycle falls back to the full cost.
	assert.Equal(t, float64(3000), ProratedCost(3000, "bogus"))

	// Past cycle charges nothing.
	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	assert.Equal(t, float64(0), ProratedCost(3000, past))

	// Half the billing month remaining charges roughly half.
	half := time.Now().Add(15 * 24 * time.Hour).Format(time.RFC3339)
	got := ProratedCost(3000, half)
	assert.InDelta(t, 1500, got, 20)
}

func TestRedactKey(t *testing.T) {
	assert.Equal(t, "******", RedactKey("secret"))
	assert.Equal(t, "abcdef******", RedactKey("abcdefghijklmnop"))
	assert.Equal(t, "", RedactKey(""))
}
