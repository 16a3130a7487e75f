package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator displays an in-flight message for one operation at a time.
// On a TTY it animates a spinner; elsewhere it prints plain lines so the
// output stays usable in pipes and CI logs.
type Indicator struct {
	// Writer receives all output. Defaults to os.Stderr so document
	// output on stdout stays clean.
	Writer io.Writer

	capabilities TerminalCapabilities
	symbols      Symbols
	spinner      *spinner.Spinner
	enabled      bool
}

// NewIndicator creates an indicator for the given terminal capabilities.
// A disabled indicator suppresses in-flight messages but still prints
// final success and failure lines.
func NewIndicator(caps TerminalCapabilities, enabled bool) *Indicator {
	return &Indicator{
		Writer:       os.Stderr,
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		enabled:      enabled,
	}
}

// Start begins displaying msg as the in-flight operation.
func (i *Indicator) Start(msg string) {
	if !i.enabled {
		return
	}

	if i.capabilities.IsTTY {
		i.spinner = spinner.New(
			spinner.CharSets[i.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		i.spinner.Writer = i.Writer
		i.spinner.Suffix = " " + msg
		i.spinner.Start()
	} else {
		fmt.Fprintln(i.Writer, msg)
	}
}

// Succeed stops the spinner and prints a success line.
func (i *Indicator) Succeed(msg string) {
	i.Stop()
	fmt.Fprintf(i.Writer, "%s %s\n", i.mark(i.symbols.Checkmark, colorGreen), msg)
}

// Fail stops the spinner and prints a failure line.
func (i *Indicator) Fail(msg string) {
	i.Stop()
	fmt.Fprintf(i.Writer, "%s %s\n", i.mark(i.symbols.Failure, colorRed), msg)
}

// Warn stops the spinner and prints a warning line.
func (i *Indicator) Warn(msg string) {
	i.Stop()
	fmt.Fprintf(i.Writer, "%s %s\n", i.mark(i.symbols.Warning, colorYellow), msg)
}

// Stop halts the spinner without printing a result line.
func (i *Indicator) Stop() {
	if i.spinner != nil {
		i.spinner.Stop()
		i.spinner = nil
	}
}

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

func (i *Indicator) mark(symbol, color string) string {
	if i.capabilities.SupportsColor {
		return color + symbol + colorReset
	}
	return symbol
}
