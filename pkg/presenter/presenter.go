// Package presenter provides consistent CLI output for user-facing
// messages: success, error, warning and informational lines with color
// support, quiet mode, and interactive prompts (including hidden input for
// passwords and OTP codes).
package presenter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode represents different color output modes.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output.
	ColorAlways
	// ColorNever disables colored output.
	ColorNever
)

// TerminalPresenter writes user-facing messages to a terminal.
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	input       io.Reader
	colorMode   ColorMode
	quiet       bool
}

// New creates a TerminalPresenter with default settings.
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a TerminalPresenter with custom streams, used by
// tests.
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	p := &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
		input:       os.Stdin,
		colorMode:   colorMode,
	}

	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}

	return p
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}

	switch os.Getenv("KYUNCLI_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Error displays an error message on stderr. Errors are never silenced by
// quiet mode.
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}

	errorColor := color.New(color.FgRed, color.Bold)
	if context != "" {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Success displays a success message.
func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

// Warning displays a warning message.
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info displays an informational message.
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s\n", message)
}

// Section displays a section header.
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}
	headerColor := color.New(color.Bold)
	headerColor.Fprintf(p.output, "%s\n", title)
	headerColor.Fprintf(p.output, "%s\n", strings.Repeat("-", len(title)))
}

// Separator displays a visual separator line.
func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}
	color.New(color.Faint).Fprintf(p.output, "%s\n", strings.Repeat("-", 60))
}

// Prompt displays a question and reads a line of input. An empty response
// yields def.
func (p *TerminalPresenter) Prompt(question, def string) string {
	promptColor := color.New(color.FgCyan)
	if def != "" {
		promptColor.Fprintf(p.output, "%s [%s]: ", question, def)
	} else {
		promptColor.Fprintf(p.output, "%s: ", question)
	}

	reader := bufio.NewReader(p.input)
	response, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return def
	}
	return response
}

// PromptHidden reads input without echoing it, for passwords and OTP
// codes. Falls back to a regular prompt when stdin is not a terminal.
func (p *TerminalPresenter) PromptHidden(question string) string {
	f, ok := p.input.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.Prompt(question, "")
	}

	color.New(color.FgCyan).Fprintf(p.output, "%s: ", question)
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.output)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Confirm asks a yes/no question and returns true only on an explicit yes.
func (p *TerminalPresenter) Confirm(question string) bool {
	answer := p.Prompt(question+" [y/N]", "n")
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// SetQuiet enables or disables quiet mode.
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports whether quiet mode is enabled.
func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

// SetInput redirects prompt input, used by tests.
func (p *TerminalPresenter) SetInput(r io.Reader) {
	p.input = r
}

// Global presenter instance for convenience.
var defaultPresenter = New()

// Error displays an error message using the default presenter.
func Error(err error, context string) {
	defaultPresenter.Error(err, context)
}

// Success displays a success message using the default presenter.
func Success(message string) {
	defaultPresenter.Success(message)
}

// Warning displays a warning message using the default presenter.
func Warning(message string) {
	defaultPresenter.Warning(message)
}

// Info displays an informational message using the default presenter.
func Info(message string) {
	defaultPresenter.Info(message)
}

// Section displays a section header using the default presenter.
func Section(title string) {
	defaultPresenter.Section(title)
}

// Separator displays a separator line using the default presenter.
func Separator() {
	defaultPresenter.Separator()
}

// Prompt reads a line of input using the default presenter.
func Prompt(question, def string) string {
	return defaultPresenter.Prompt(question, def)
}

// PromptHidden reads hidden input using the default presenter.
func PromptHidden(question string) string {
	return defaultPresenter.PromptHidden(question)
}

// Confirm asks a yes/no question using the default presenter.
func Confirm(question string) bool {
	return defaultPresenter.Confirm(question)
}

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) {
	defaultPresenter.SetQuiet(quiet)
}
