package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/debug"
	"github.com/wendlabs/wend/internal/navigate"
	"github.com/wendlabs/wend/internal/ui"
	"github.com/wendlabs/wend/internal/workflow"
)

var moveCmd = &cobra.Command{
	Use:   "move <record-key> <target>",
	Short: "Move a record to a target state, however many transitions it takes",
	Long: `Move a record to a target workflow state. The stored graph supplies the
route; each transition is applied live, in order, until the record arrives.

If the record's type has never been discovered, a discovery walk runs
first using this record as the probe, and the graph is saved for next
time.

Applied transitions are never rolled back: a failure partway through
leaves the record in the last state a successful step confirmed, and the
command reports exactly where that is.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, target := args[0], args[1]
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		comment, _ := cmd.Flags().GetBool("comment")

		st := openStore()
		tr := openTracker(rootCtx)
		defer func() { _ = tr.Close() }()

		opts := navigate.Options{
			AddTrailComment: comment,
			DryRun:          dryRun,
		}
		if !jsonOutput {
			opts.OnEvent = renderMoveEvent
		}

		result, err := navigate.SmartTransition(rootCtx, tr, st, key, target, opts)
		if err != nil {
			var failed *navigate.TransitionFailedError
			if errors.As(err, &failed) && !jsonOutput {
				renderTransitionFailed(failed, key, target)
				os.Exit(1)
			}
			var notFound *workflow.PathNotFoundError
			if errors.As(err, &notFound) && !jsonOutput {
				renderPathNotFound(notFound)
				os.Exit(1)
			}
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			outputJSON(result)
			return
		}

		if len(result.Path) == 0 {
			fmt.Printf("%s %s is already in %s\n", ui.RenderPassIcon(), key, result.MatchedState)
			return
		}

		if result.DryRun {
			fmt.Printf("Would move %s: %s -> %s (%d %s)\n",
				key, result.From, ui.RenderAccent(result.MatchedState), len(result.Path), plural(len(result.Path), "transition", "transitions"))
			for i, step := range result.Path {
				fmt.Printf("  %d. %s -> %s\n", i+1, step.Name, step.To)
			}
			return
		}

		fmt.Printf("%s Moved %s: %s -> %s (%d %s)\n",
			ui.RenderPassIcon(), key, result.From, ui.RenderAccent(result.MatchedState), result.Applied, plural(result.Applied, "transition", "transitions"))
		if result.Commented {
			fmt.Printf("%s Trail comment added\n", ui.TreeLast)
		}
	},
}

func init() {
	moveCmd.Flags().Bool("dry-run", false, "Print the transition path without applying anything")
	moveCmd.Flags().Bool("comment", false, "Add a comment on the record summarizing the state sequence")
	rootCmd.AddCommand(moveCmd)
}

// renderMoveEvent prints smart-transition progress as it happens.
func renderMoveEvent(ev navigate.Event) {
	switch ev.Kind {
	case navigate.EventApply:
		fmt.Printf("  [%d/%d] %s\n", ev.Step, ev.Total, ev.Message)
	case navigate.EventWarning:
		WarnError("%s", ev.Message)
	default:
		if !debug.IsQuiet() {
			fmt.Println(ev.Message)
		}
	}
}

// renderTransitionFailed reports a path that died partway: which step
// failed, where the record actually is now, and how to pick it back up.
func renderTransitionFailed(failed *navigate.TransitionFailedError, key, target string) {
	fmt.Fprintf(os.Stderr, "%s Transition %s (to %s) failed: %v\n",
		ui.RenderFailIcon(), failed.Step.Name, failed.Step.To, failed.Err)
	fmt.Fprintf(os.Stderr, "%s is in %s; applied transitions are not rolled back.\n", key, failed.LastConfirmedState)
	fmt.Fprintf(os.Stderr, "Hint: fix whatever the tracker rejected, then resume with 'wend move %s %s'\n", key, target)
}
