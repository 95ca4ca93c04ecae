package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/config"

	// Tracker adapters register themselves at init time.
	_ "github.com/wendlabs/wend/internal/jira"
)

var (
	storePath   string
	trackerName string
	jsonOutput  bool

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	verboseFlag bool // Enable verbose/debug output
	quietFlag   bool // Suppress non-essential output
)

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	// Register persistent flags
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Workflow store path (default: auto-discover .wend/workflows.json)")
	rootCmd.PersistentFlags().StringVar(&trackerName, "tracker", "", "Tracker backend (default: jira)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")

	// Add --version flag to root command (same behavior as version subcommand)
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "wend",
	Short: "wend - Workflow discovery and navigation for issue trackers",
	Long: `Learns how records actually move through an issue tracker by driving a
probe record through every transition the tracker allows, then uses the
discovered graph to plan and execute multi-step moves.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle --version flag on root command
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("wend version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help() // Help() always returns nil for cobra commands
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applyVerbosityFlags()
		applyViperOverrides(cmd)
		printDebugBanner(cmd)
		initTelemetry()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()

		// Cancel the signal context to clean up resources
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
