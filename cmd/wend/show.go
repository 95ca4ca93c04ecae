package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/store"
	"github.com/wendlabs/wend/internal/ui"
	"gopkg.in/yaml.v3"
)

// showPayload is the machine-readable form of a stored workflow.
type showPayload struct {
	RecordType string          `json:"recordType" yaml:"recordType"`
	Workflow   store.TypeEntry `json:"workflow" yaml:"workflow"`
}

var showCmd = &cobra.Command{
	Use:   "show <record-type>",
	Short: "Show a stored workflow graph",
	Long: `Show the stored workflow graph for a record type.

Formats:
  table  one row per transition (default)
  ascii  box diagram of states and their edges
  dot    Graphviz source (pipe to 'dot -Tsvg')
  json   the stored document entry
  yaml   the stored document entry as YAML`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		recordType := args[0]
		format, _ := cmd.Flags().GetString("format")
		if jsonOutput && !cmd.Flags().Changed("format") {
			format = "json"
		}

		st := openStore()
		graph, err := st.Get(recordType)
		if err != nil {
			fatalStoreLookup(err, recordType)
		}

		switch format {
		case "table":
			fmt.Println(ui.RenderCategory(recordType + " workflow"))
			fmt.Println()
			fmt.Print(graph.ToTable())
		case "ascii":
			fmt.Print(graph.ToASCII())
		case "dot":
			fmt.Print(graph.ToDOT())
		case "json":
			outputJSON(showPayload{RecordType: recordType, Workflow: store.EntryFromGraph(graph)})
		case "yaml":
			data, err := yaml.Marshal(showPayload{RecordType: recordType, Workflow: store.EntryFromGraph(graph)})
			if err != nil {
				FatalError("encoding YAML: %v", err)
			}
			fmt.Print(string(data))
		default:
			FatalError("unknown format %q (table|ascii|dot|json|yaml)", format)
		}
	},
}

func init() {
	showCmd.Flags().StringP("format", "f", "table", "Output format: table|ascii|dot|json|yaml")
	rootCmd.AddCommand(showCmd)
}

// fatalStoreLookup exits for a failed store read, with a discover hint when
// the record type simply has no stored graph yet.
func fatalStoreLookup(err error, recordType string) {
	if jsonOutput {
		outputJSONError(err, storeErrorCode(err))
	}
	if errors.Is(err, store.ErrWorkflowNotFound) {
		FatalErrorWithHint(err.Error(),
			fmt.Sprintf("run 'wend discover <record-key>' with a probe %s record to map it", recordType))
	}
	FatalError("%v", err)
}

// storeErrorCode maps store errors onto stable JSON error codes.
func storeErrorCode(err error) string {
	if errors.Is(err, store.ErrWorkflowNotFound) {
		return "workflow-not-found"
	}
	return "store-error"
}
