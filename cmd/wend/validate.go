package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/config"
	"github.com/wendlabs/wend/internal/ui"
	"github.com/wendlabs/wend/internal/workflow"
	"golang.org/x/sync/errgroup"
)

// validateReport is one record type's dead-end analysis.
type validateReport struct {
	RecordType string             `json:"recordType"`
	States     int                `json:"states"`
	DeadEnds   []workflow.DeadEnd `json:"deadEnds"`
}

var validateCmd = &cobra.Command{
	Use:   "validate [record-type]",
	Short: "Check stored workflows for states that cannot reach completion",
	Long: `Check a stored workflow for dead ends: states from which no sequence of
transitions reaches any of the given terminal states.

Terminal states come from --done, or from the validate.done-states list in
.wend/config.yaml. Matching is case-insensitive.

Exits 1 when any dead end is found.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")
		doneStates, _ := cmd.Flags().GetStringSlice("done")
		if len(doneStates) == 0 {
			doneStates = config.GetStringSlice("validate.done-states")
		}
		if len(doneStates) == 0 {
			FatalErrorWithHint("no terminal states given",
				"pass --done Done,Closed or set validate.done-states in .wend/config.yaml")
		}

		st := openStore()

		var types []string
		if all {
			var err error
			types, err = st.ListTypes()
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			if len(types) == 0 {
				FatalErrorWithHint("no stored workflows to validate", "run 'wend discover <record-key>' first")
			}
		} else {
			if len(args) == 0 {
				FatalErrorRespectJSON("record type required (or pass --all)")
			}
			types = []string{args[0]}
		}

		// Each type's analysis is independent; run them concurrently.
		reports := make([]validateReport, len(types))
		var g errgroup.Group
		for i, recordType := range types {
			g.Go(func() error {
				graph, err := st.Get(recordType)
				if err != nil {
					return err
				}
				states, _ := graphStats(graph)
				reports[i] = validateReport{
					RecordType: recordType,
					States:     states,
					DeadEnds:   workflow.FindDeadEnds(graph, doneStates),
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		hasDeadEnds := false
		for _, r := range reports {
			if len(r.DeadEnds) > 0 {
				hasDeadEnds = true
			}
		}

		if jsonOutput {
			outputJSON(reports)
			if hasDeadEnds {
				os.Exit(1)
			}
			return
		}

		terminals := strings.Join(doneStates, ", ")
		failed := 0
		for _, r := range reports {
			if len(r.DeadEnds) == 0 {
				fmt.Printf("%s %s: all %d states can reach %s\n",
					ui.RenderPassIcon(), r.RecordType, r.States, terminals)
				continue
			}
			failed++
			fmt.Printf("%s %s: %d dead-end %s\n",
				ui.RenderFailIcon(), r.RecordType, len(r.DeadEnds), plural(len(r.DeadEnds), "state", "states"))
			for _, d := range r.DeadEnds {
				reach := ui.TruncateSimple(strings.Join(d.Reachable, ", "), 60)
				fmt.Printf("  %s%s %s\n",
					ui.MutedStyle.Render(ui.TreeLast), d.State, ui.RenderMuted("(can only reach: "+reach+")"))
			}
		}

		if len(reports) > 1 {
			fmt.Println(ui.RenderSeparator())
			if failed == 0 {
				fmt.Println(ui.RenderPass(fmt.Sprintf("%d workflows validated, no dead ends", len(reports))))
			} else {
				fmt.Println(ui.RenderFail(fmt.Sprintf("%d of %d workflows have dead ends", failed, len(reports))))
			}
		}

		if hasDeadEnds {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().StringSlice("done", nil, "Terminal states meaning work is complete (comma-separated)")
	validateCmd.Flags().Bool("all", false, "Validate every stored record type")
	rootCmd.AddCommand(validateCmd)
}
