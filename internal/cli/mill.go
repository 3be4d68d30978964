package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mvp-joe/gerber2nc/internal/config"
	"github.com/mvp-joe/gerber2nc/internal/converter"
	"github.com/mvp-joe/gerber2nc/internal/gcode"
	"github.com/mvp-joe/gerber2nc/internal/preview"
	"github.com/mvp-joe/gerber2nc/internal/project"
	"github.com/spf13/cobra"
)

var (
	outputFlag       string
	previewFlag      string
	offsetFlag       float64
	passesFlag       int
	spacingFlag      float64
	spindleSpeedFlag int
	cutDepthFlag     float64
	feedRateFlag     int
	quietFlag        bool
	watchFlag        bool
)

// millCmd represents the mill command
var millCmd = &cobra.Command{
	Use:   "mill <project>",
	Short: "Generate an isolation-milling program for a board",
	Long: `Mill finds the copper layer, board outline and drill file for a project
base name, computes isolation toolpaths around the copper and writes a G-code
program that mills the traces, marks the board edge and drills the holes.

Only the copper layer is required. A missing outline or drill file is
reported and skipped.

Examples:
  # Convert boards/blinky-F_Cu.gbr and friends to blinky.nc
  gerber2nc mill boards/blinky

  # Four passes, written to a chosen file with a PNG preview
  gerber2nc mill boards/blinky --passes 4 -o out/blinky.nc --preview out/blinky.png

  # Regenerate whenever the board is re-exported
  gerber2nc mill boards/blinky --watch
`,
	Args: cobra.ExactArgs(1),
	RunE: runMill,
}

func init() {
	rootCmd.AddCommand(millCmd)
	defaults := config.Default()

	millCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output G-code file (default: <project>.nc)")
	millCmd.Flags().StringVar(&previewFlag, "preview", "", "Write a PNG preview to this file")
	millCmd.Flags().Float64Var(&offsetFlag, "offset", defaults.Toolpath.Offset, "Initial offset from copper edge in mm")
	millCmd.Flags().IntVar(&passesFlag, "passes", defaults.Toolpath.Passes, "Number of milling passes")
	millCmd.Flags().Float64Var(&spacingFlag, "spacing", defaults.Toolpath.Spacing, "Spacing between passes in mm")
	millCmd.Flags().IntVar(&spindleSpeedFlag, "spindle-speed", defaults.Milling.SpindleSpeed, "Spindle speed in RPM")
	millCmd.Flags().Float64Var(&cutDepthFlag, "cut-depth", defaults.Milling.CutDepth, "Trace isolation cut depth in mm")
	millCmd.Flags().IntVar(&feedRateFlag, "feed-rate", defaults.Milling.FeedRate, "Horizontal feed rate in mm/min")
	millCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	millCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the project files and regenerate on change")
}

// millOptions is everything one mill run needs, resolved from flags and config.
type millOptions struct {
	Project string
	Output  string
	Preview string
	Quiet   bool
	Watch   bool
	Config  *config.Config
}

func runMill(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nInterrupted! Stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if quietFlag {
		prev := log.Writer()
		log.SetOutput(io.Discard)
		defer log.SetOutput(prev)
	}

	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	opts := millOptions{
		Project: args[0],
		Output:  outputFlag,
		Preview: previewFlag,
		Quiet:   quietFlag,
		Watch:   watchFlag,
		Config:  cfg,
	}
	if opts.Output == "" {
		opts.Output = defaultOutput(opts.Project)
	}
	if opts.Preview == "" && cfg.Output.Preview {
		opts.Preview = strings.TrimSuffix(opts.Output, filepath.Ext(opts.Output)) + ".png"
	}

	return mill(ctx, opts)
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, projectPath string) (*config.Config, error) {
	var loader config.Loader
	if cfgFile != "" {
		loader = config.NewFileLoader(cfgFile)
	} else {
		loader = config.NewLoader(projectDir(projectPath))
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("offset") {
		cfg.Toolpath.Offset = offsetFlag
	}
	if flags.Changed("passes") {
		cfg.Toolpath.Passes = passesFlag
	}
	if flags.Changed("spacing") {
		cfg.Toolpath.Spacing = spacingFlag
	}
	if flags.Changed("spindle-speed") {
		cfg.Milling.SpindleSpeed = spindleSpeedFlag
	}
	if flags.Changed("cut-depth") {
		cfg.Milling.CutDepth = cutDepthFlag
	}
	if flags.Changed("feed-rate") {
		cfg.Milling.FeedRate = feedRateFlag
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mill converts the project once and, in watch mode, keeps regenerating
// until ctx is cancelled.
func mill(ctx context.Context, opts millOptions) error {
	cfg := opts.Config
	log.Printf("gerber2nc %s", Version)

	files, err := project.Discover(opts.Project)
	if err != nil {
		return fmt.Errorf("%w: %w", converter.ErrFatalInput, err)
	}

	engineOpts := cfg.ToEngineOptions()
	engineOpts.Progress = NewCLIProgressReporter(opts.Quiet)

	conv, err := converter.New(converter.Options{
		Params:   cfg.ToToolpathParams(),
		Geometry: cfg.ToGeometryOptions(),
		Engine:   engineOpts,
	})
	if err != nil {
		return fmt.Errorf("failed to create converter: %w", err)
	}
	defer conv.Close()

	gen := gcode.NewGenerator(cfg.ToGcodeParams())

	res, err := conv.ConvertFiles(ctx, files)
	if err == nil {
		err = writeOutputs(res, gen, opts)
	}
	if !opts.Watch {
		if err != nil && ctx.Err() != nil {
			return fmt.Errorf("conversion cancelled")
		}
		return err
	}
	if err != nil {
		log.Printf("Warning: initial conversion failed: %v", err)
	}

	debounce := time.Duration(cfg.Output.DebounceMS) * time.Millisecond
	err = conv.Watch(ctx, files, debounce, func(_ *project.Files, res *converter.Result, err error) {
		if err == nil {
			err = writeOutputs(res, gen, opts)
		}
		if err != nil {
			log.Printf("Warning: conversion failed: %v", err)
			return
		}
		stats := conv.CacheStats()
		log.Printf("Parse cache: %d hits, %d misses", stats.Hits, stats.Misses)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}
	log.Println("Watch mode stopped")
	return nil
}

// writeOutputs writes the G-code program and, when requested, the preview.
func writeOutputs(res *converter.Result, gen *gcode.Generator, opts millOptions) error {
	id, err := gen.WriteFile(opts.Output, res.Job())
	if err != nil {
		return fmt.Errorf("failed to write G-code: %w", err)
	}
	log.Printf("G-code written to %s (job %s)", opts.Output, id)

	if opts.Preview == "" {
		return nil
	}
	popts := opts.Config.ToPreviewOptions()
	popts.Title = filepath.Base(opts.Output)
	if err := preview.WritePNG(opts.Preview, res.Scene(), popts); err != nil {
		if errors.Is(err, preview.ErrEmptyBoard) {
			log.Printf("Warning: skipping preview: %v", err)
			return nil
		}
		return fmt.Errorf("failed to write preview: %w", err)
	}
	log.Printf("Preview written to %s", opts.Preview)
	return nil
}

// defaultOutput names the program after the project, in the working directory.
func defaultOutput(projectPath string) string {
	return filepath.Base(filepath.Clean(projectPath)) + ".nc"
}

// projectDir is the directory searched for a project config file.
func projectDir(projectPath string) string {
	if info, err := os.Stat(projectPath); err == nil && info.IsDir() {
		return projectPath
	}
	return filepath.Dir(projectPath)
}
