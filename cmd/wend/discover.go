package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/debug"
	"github.com/wendlabs/wend/internal/discovery"
	"github.com/wendlabs/wend/internal/ui"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <record-key>",
	Short: "Map a workflow by driving a probe record through it",
	Long: `Map a record type's workflow by driving a live probe record through
every transition the tracker allows.

Discovery is destructive to the probe record's state: the record really
moves through the workflow, and only the final drive back to its starting
state is best-effort. Use a record set aside for the purpose, never one
someone is working on.

The discovered graph is saved to the workflow store, keyed by the probe
record's type.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		yes, _ := cmd.Flags().GetBool("yes")

		if !yes && !jsonOutput && !ui.IsAgentMode() {
			confirmed, err := confirmDiscovery(key)
			if err != nil {
				if err == huh.ErrUserAborted {
					fmt.Fprintln(os.Stderr, "Discovery cancelled.")
					os.Exit(0)
				}
				FatalError("form error: %v", err)
			}
			if !confirmed {
				fmt.Fprintln(os.Stderr, "Discovery cancelled.")
				return
			}
		}

		st := openStore()
		tr := openTracker(rootCtx)
		defer func() { _ = tr.Close() }()

		engine := discovery.NewEngine(tr)
		if !jsonOutput {
			engine.OnMessage = func(msg string) {
				if !debug.IsQuiet() {
					fmt.Println(msg)
				}
			}
		}
		engine.OnWarning = func(msg string) {
			WarnError("%s", msg)
		}

		graph, err := engine.Discover(rootCtx, key)
		if err != nil {
			var incomplete *discovery.IncompleteError
			if errors.As(err, &incomplete) && !jsonOutput {
				renderIncomplete(incomplete)
			}
			FatalErrorRespectJSON("%v", err)
		}

		if err := st.Save(graph); err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		states, transitions := graphStats(graph)

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"recordType":  graph.RecordType,
				"states":      states,
				"transitions": transitions,
				"store":       st.Path(),
			})
			return
		}

		fmt.Println()
		fmt.Printf("%s Discovered %s workflow: %d states, %d transitions\n",
			ui.RenderPassIcon(), graph.RecordType, states, transitions)
		fmt.Printf("%s Saved to %s\n", ui.TreeLast, st.Path())
		fmt.Println()
		fmt.Print(graph.ToTable())
	},
}

func init() {
	discoverCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(discoverCmd)
}

// confirmDiscovery asks before moving a live record around. Returns what the
// user chose; huh.ErrUserAborted comes back as the error on Esc/Ctrl-C.
func confirmDiscovery(key string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Drive %s through its workflow?", key)).
				Description("The record really moves through every reachable transition. It is returned to its starting state best-effort when the walk ends.").
				Affirmative("Yes, use this record").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// renderIncomplete shows what a stuck walk did manage to learn. The partial
// graph is display-only; it is never saved.
func renderIncomplete(incomplete *discovery.IncompleteError) {
	if incomplete.Partial == nil {
		return
	}
	states, transitions := graphStats(incomplete.Partial)
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderWarnIcon(),
		ui.RenderWarn(fmt.Sprintf("Discovery incomplete: stuck at %s with %d states, %d transitions mapped",
			incomplete.StuckAt, states, transitions)))
	fmt.Fprintf(os.Stderr, "%sNothing was saved. Unreached states:\n", ui.TreeIndent)
	for _, s := range incomplete.Partial.AllStates() {
		if !incomplete.Partial.HasState(s) {
			fmt.Fprintf(os.Stderr, "%s%s %s\n", ui.TreeIndent, ui.TreeLast, s)
		}
	}
}
