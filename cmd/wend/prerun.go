package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/config"
	"github.com/wendlabs/wend/internal/debug"
	"github.com/wendlabs/wend/internal/telemetry"
)

// --------------------------------------------------------------------------
// Bootstrap pipeline steps for PersistentPreRun
//
// Each function represents a single concern in the initialization sequence.
// The PersistentPreRun in main.go calls these in order, making the boot
// sequence self-documenting.
// --------------------------------------------------------------------------

// setupSignalContext creates a context that cancels on SIGINT/SIGTERM.
// A discovery walk moves a live record for its whole duration; Ctrl-C
// cancels rootCtx so the walk stops at the current live call instead of
// the process dying with the probe mid-walk.
func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// applyVerbosityFlags propagates --verbose and --quiet flags to the debug
// package so all subsequent log output respects the user's preference.
func applyVerbosityFlags() {
	debug.SetVerbose(verboseFlag)
	debug.SetQuiet(quietFlag)
}

// applyViperOverrides merges viper config values (from config file + env vars)
// into flags that weren't explicitly set on the command line.
// Priority: flags > viper (config file + env vars) > defaults.
func applyViperOverrides(cmd *cobra.Command) {
	if !cmd.Flags().Changed("json") {
		jsonOutput = config.GetBool("json")
	}
	if !cmd.Flags().Changed("store") && storePath == "" {
		storePath = config.GetString("store")
	}
	if !cmd.Flags().Changed("tracker") && trackerName == "" {
		trackerName = config.GetString("tracker")
	}
}

// printDebugBanner logs the resolved invocation when WEND_DEBUG is set.
func printDebugBanner(cmd *cobra.Command) {
	debug.Logf("wend %s: command=%s tracker=%s store=%q json=%v",
		Version, cmd.Name(), trackerName, storePath, jsonOutput)
}

// initTelemetry installs the OTel providers. When telemetry is disabled
// via env the installed providers are noop.
func initTelemetry() {
	if err := telemetry.Init(rootCtx, "wend", Version); err != nil {
		WarnError("telemetry init failed: %v", err)
	}
}

// shutdownTelemetry flushes exporters with a short deadline so a hung
// collector cannot wedge command exit.
func shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	telemetry.Shutdown(ctx)
}
