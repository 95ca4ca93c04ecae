package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <record-type>",
	Short: "Delete a stored workflow",
	Long: `Delete the stored workflow graph for a record type. Only the local store
changes; nothing happens in the tracker. The next 'wend move' against a
record of this type triggers a fresh discovery walk.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		recordType := args[0]
		force, _ := cmd.Flags().GetBool("force")

		st := openStore()

		if !force && !jsonOutput && !ui.IsAgentMode() {
			confirmed, err := confirmDelete(recordType)
			if err != nil {
				if err == huh.ErrUserAborted {
					fmt.Fprintln(os.Stderr, "Delete cancelled.")
					os.Exit(0)
				}
				FatalError("form error: %v", err)
			}
			if !confirmed {
				fmt.Fprintln(os.Stderr, "Delete cancelled.")
				return
			}
		}

		if err := st.Delete(recordType); err != nil {
			fatalStoreLookup(err, recordType)
		}

		if jsonOutput {
			outputJSON(map[string]string{"deleted": recordType})
			return
		}
		fmt.Printf("%s Deleted %s workflow from %s\n", ui.RenderPassIcon(), recordType, st.Path())
	},
}

func init() {
	deleteCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func confirmDelete(recordType string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete the stored %s workflow?", recordType)).
				Description("Re-discovering it means driving another probe record through every transition.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
