package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mvp-joe/gerber2nc/internal/toolpath"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter shows a progress bar over toolpath passes.
type CLIProgressReporter struct {
	quiet     bool
	out       io.Writer
	passBar   *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   os.Stdout,
	}
}

func (c *CLIProgressReporter) OnCopperMerged(primitives, islands int) {
	if c.quiet {
		return
	}
	log.Printf("Copper merged: %d traces and pads into %d islands", primitives, islands)
}

func (c *CLIProgressReporter) OnPassesStart(total int) {
	if c.quiet {
		return
	}
	c.startTime = time.Now()
	c.passBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Computing toolpaths"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnPassComplete(pass toolpath.Pass) {
	if c.quiet {
		return
	}
	if c.passBar != nil {
		c.passBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(set *toolpath.Set) {
	if c.quiet {
		return
	}
	if c.passBar != nil {
		c.passBar.Finish()
		c.passBar = nil
	}
	fmt.Fprintf(c.out, "✓ Toolpaths complete: %d paths in %d passes (took %.1fs)\n",
		set.PathCount(), len(set.Passes), time.Since(c.startTime).Seconds())
}
