package main

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wendlabs/wend/internal/ui"
)

//go:embed guide.md
var guideMarkdown string

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the wend user guide",
	Long:  `Show the full user guide, rendered for the terminal.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(ui.RenderMarkdown(guideMarkdown))
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)
}
