// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf-qa/internal/langdetect"
)

var detectCmd = &cobra.Command{
	Use:   "detect [text...]",
	Short: "Detect the language of a piece of text",
	Long: `Detect runs the offline language detector and prints the language code
with its confidence, or "unknown" when the text is too short or ambiguous.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := langdetect.New(langdetect.Options{})
		text := strings.Join(args, " ")
		res := d.Detect(text)

		out := cmd.OutOrStdout()
		if !res.Known {
			fmt.Fprintf(out, "%s (looks English: %t)\n", res, d.LooksEnglish(text))
			return nil
		}
		fmt.Fprintf(out, "%s (confidence %.2f)\n", res, res.Confidence)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
