// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List the books in the library",
	Long: `Books lists the indexed books in corpus order with the ids accepted by
'ask --book'.`,
	RunE: runBooks,
}

func init() {
	booksCmd.Flags().Bool("json", false, "print the catalog as JSON")
	rootCmd.AddCommand(booksCmd)
}

// bookSummary is a catalog row; section text is omitted.
type bookSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Year     int    `json:"year,omitempty"`
	Language string `json:"language,omitempty"`
	Sections int    `json:"sections"`
}

func runBooks(cmd *cobra.Command, args []string) error {
	live, _, err := loadIndex()
	if err != nil {
		return err
	}
	idx, err := live.Current()
	if err != nil {
		return err
	}

	summaries := summarize(idx.Books())
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	printBooks(cmd.OutOrStdout(), summaries)
	return nil
}

func summarize(books []types.Book) []bookSummary {
	out := make([]bookSummary, len(books))
	for i, b := range books {
		out[i] = bookSummary{
			ID:       b.ID,
			Title:    b.Title,
			Author:   b.Author,
			Year:     b.Year,
			Language: b.Language,
			Sections: len(b.Sections),
		}
	}
	return out
}

func printBooks(w io.Writer, books []bookSummary) {
	fmt.Fprintf(w, "%-24s  %-36s  %-20s  %4s  %s\n", "ID", "Title", "Author", "Year", "Sections")
	fmt.Fprintln(w, strings.Repeat("-", 98))
	for _, b := range books {
		year := ""
		if b.Year > 0 {
			year = fmt.Sprint(b.Year)
		}
		fmt.Fprintf(w, "%-24s  %-36s  %-20s  %4s  %d\n", clip(b.ID, 24), clip(b.Title, 36), clip(b.Author, 20), year, b.Sections)
	}
}

// clip shortens s to n runes for table output.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
