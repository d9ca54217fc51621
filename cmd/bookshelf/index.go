// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf-qa/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the index and report corpus problems",
	Long: `Index loads the corpus, builds the retrieval index, and prints a
summary with one line per skipped book, section, or paragraph. Use it to
check a corpus before serving questions from it.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().Bool("strict", false, "exit non-zero when anything was skipped")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	_, report, err := loadIndex()
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)

	if strict, _ := cmd.Flags().GetBool("strict"); strict && len(report.Skipped) > 0 {
		return fmt.Errorf("%d corpus problem(s)", len(report.Skipped))
	}
	return nil
}

func printReport(w io.Writer, r index.Report) {
	for _, d := range r.Skipped {
		fmt.Fprintf(w, "  skipped %s\n", d)
	}
	fmt.Fprintf(w, "indexed %d book(s), %d section(s), %d paragraph(s), %d term(s); %d skipped\n",
		r.Books, r.Sections, r.Paragraphs, r.Terms, len(r.Skipped))
}
