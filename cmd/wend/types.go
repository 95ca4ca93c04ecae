package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// typeSummary is one stored record type with its provenance.
type typeSummary struct {
	RecordType     string `json:"recordType"`
	States         int    `json:"states"`
	Transitions    int    `json:"transitions"`
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List record types with a stored workflow",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st := openStore()
		names, err := st.ListTypes()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		summaries := make([]typeSummary, 0, len(names))
		for _, name := range names {
			graph, err := st.Get(name)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			states, transitions := graphStats(graph)
			s := typeSummary{
				RecordType:     name,
				States:         states,
				Transitions:    transitions,
				DiscoveredFrom: graph.DiscoveredFrom,
			}
			if !graph.DiscoveredAt.IsZero() {
				s.DiscoveredAt = graph.DiscoveredAt.Format("2006-01-02")
			}
			summaries = append(summaries, s)
		}

		if jsonOutput {
			outputJSON(summaries)
			return
		}

		if len(summaries) == 0 {
			fmt.Println("No workflows discovered yet. Run 'wend discover <record-key>' first.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tSTATES\tTRANSITIONS\tDISCOVERED")
		for _, s := range summaries {
			provenance := "-"
			if s.DiscoveredFrom != "" {
				provenance = "from " + s.DiscoveredFrom
				if s.DiscoveredAt != "" {
					provenance += " on " + s.DiscoveredAt
				}
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.RecordType, s.States, s.Transitions, provenance)
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
