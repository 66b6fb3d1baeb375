package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	p := NewWithOptions(&out, &errOut, ColorNever)
	return p, &out, &errOut
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		envColor string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"always", "", "always", ColorAlways},
		{"force", "", "force", ColorAlways},
		{"never", "", "never", ColorNever},
		{"off", "", "off", ColorNever},
		{"default", "", "", ColorAuto},
		{"unknown value", "", "sometimes", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("NO_COLOR")
			os.Unsetenv("KYUNCLI_COLOR")
			if tt.noColor != "" {
				os.Setenv("NO_COLOR", tt.noColor)
				defer os.Unsetenv("NO_COLOR")
			}
			if tt.envColor != "" {
				os.Setenv("KYUNCLI_COLOR", tt.envColor)
				defer os.Unsetenv("KYUNCLI_COLOR")
			}

			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "fetch failed")
	assert.Contains(t, errOut.String(), "[ERROR] fetch failed: boom")
	assert.Empty(t, out.String())

	errOut.Reset()
	p.Error(nil, "ignored")
	assert.Empty(t, errOut.String())

	p.Error(errors.New("bare"), "")
	assert.Contains(t, errOut.String(), "[ERROR] bare")
}

func TestErrorNotSilencedByQuiet(t *testing.T) {
	p, _, errOut := newTestPresenter()
	p.SetQuiet(true)

	p.Error(errors.New("boom"), "")
	assert.Contains(t, errOut.String(), "boom")
}

func TestQuietSuppressesMessages(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.SetQuiet(true)

	p.Success("done")
	p.Warning("careful")
	p.Info("fyi")
	p.Section("title")
	p.Separator()

	assert.Empty(t, out.String())
	assert.True(t, p.IsQuiet())
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("saved")
	p.Warning("charges apply")
	p.Info("two accounts stored")
	p.Section("Accounts")

	text := out.String()
	assert.Contains(t, text, "✓ saved")
	assert.Contains(t, text, "⚠ charges apply")
	assert.Contains(t, text, "two accounts stored")
	assert.Contains(t, text, "Accounts\n--------")
}

func TestPromptDefault(t *testing.T) {
	p, _, _ := newTestPresenter()

	p.SetInput(strings.NewReader("\n"))
	assert.Equal(t, "eur", p.Prompt("Currency", "eur"))

	p.SetInput(strings.NewReader("xmr\n"))
	assert.Equal(t, "xmr", p.Prompt("Currency", "eur"))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
	}

	for _, tt := range tests {
		p, _, _ := newTestPresenter()
		p.SetInput(strings.NewReader(tt.input))
		assert.Equal(t, tt.expected, p.Confirm("Proceed?"), "input %q", tt.input)
	}
}

func TestPromptHiddenFallsBackForNonTerminal(t *testing.T) {
	p, _, _ := newTestPresenter()
	p.SetInput(strings.NewReader("hunter2\n"))

	assert.Equal(t, "hunter2", p.PromptHidden("Password"))
}
