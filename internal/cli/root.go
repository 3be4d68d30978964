package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/gerber2nc/internal/parsers"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gerber2nc",
	Short: "Convert Gerber PCB files to G-code for CNC milling",
	Long: `gerber2nc turns the copper layer, board outline and drill file of a PCB
into an isolation-milling G-code program.

KiCad exports (*-F_Cu.gbr, *-Edge_Cuts.gbr, *-PTH.drl) and Fritzing exports
(*_copperTop.gtl, *_contour.gm1, *_drill.txt) are both supported.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		parsers.Verbose = verbose
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .gerber2nc.yaml in the project directory or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
