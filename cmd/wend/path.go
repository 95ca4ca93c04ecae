package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/ui"
	"github.com/wendlabs/wend/internal/workflow"
)

var pathCmd = &cobra.Command{
	Use:   "path <record-type> <from> <to>",
	Short: "Compute the transition path between two workflow states",
	Long: `Compute the shortest transition path between two states of a stored
workflow. Nothing is applied; this is a pure query over the stored graph.

The target is matched loosely: a state or transition whose name contains
the given text wins, first match in breadth-first order. The matched
destination is always printed so you can see which state won.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		recordType, from, to := args[0], args[1], args[2]

		st := openStore()
		graph, err := st.Get(recordType)
		if err != nil {
			fatalStoreLookup(err, recordType)
		}

		path, err := graph.PathTo(from, to)
		if err != nil {
			var notFound *workflow.PathNotFoundError
			if errors.As(err, &notFound) && !jsonOutput {
				renderPathNotFound(notFound)
				os.Exit(1)
			}
			FatalErrorRespectJSON("%v", err)
		}

		matched := from
		if len(path) > 0 {
			matched = path[len(path)-1].To
		}

		if jsonOutput {
			outputJSON(struct {
				RecordType   string                `json:"recordType"`
				From         string                `json:"from"`
				Target       string                `json:"target"`
				MatchedState string                `json:"matchedState"`
				Steps        []workflow.Transition `json:"steps"`
			}{recordType, from, to, matched, path})
			return
		}

		if len(path) == 0 {
			fmt.Printf("%s %s already matches %q, no transitions needed\n", ui.RenderPassIcon(), from, to)
			return
		}

		fmt.Printf("%s -> %s (%d %s):\n", from, ui.RenderAccent(matched), len(path), plural(len(path), "step", "steps"))
		for i, step := range path {
			fmt.Printf("  %d. %s -> %s\n", i+1, step.Name, step.To)
		}
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}

// renderPathNotFound lists everything reachable from the start state so the
// operator can see how far the stored graph extends.
func renderPathNotFound(notFound *workflow.PathNotFoundError) {
	fmt.Fprintf(os.Stderr, "Error: no transition path from %q to %q\n", notFound.From, notFound.To)
	fmt.Fprintf(os.Stderr, "Reachable from %q:\n", notFound.From)
	for _, s := range notFound.Reachable {
		fmt.Fprintf(os.Stderr, "  %s %s\n", ui.TreeLast, s)
	}
	fmt.Fprintf(os.Stderr, "Hint: the stored graph may be stale; re-run 'wend discover' if the workflow changed\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
