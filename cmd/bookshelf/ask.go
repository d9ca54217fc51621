// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf-qa/internal/orchestrator"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a question from the library",
	Long: `Ask answers one question. The question may be in any language the
configured translator supports; the answer is returned in --lang (default
English). Use --book to restrict the search to one book.

With --request, the question is read as a JSON request object from a file
(or "-" for stdin) instead of arguments:

  {"message": "...", "scope": "book", "bookId": "climate-atlas", "targetLanguage": "es"}`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("book", "", "restrict the search to this book id")
	askCmd.Flags().String("lang", "en", "language for the answer")
	askCmd.Flags().String("request", "", "read a JSON request from this file (- for stdin)")
	askCmd.Flags().Bool("json", false, "print the response as JSON")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	req, err := askRequest(cmd, args)
	if err != nil {
		return err
	}

	svc, _, cl, err := newService()
	if err != nil {
		return err
	}
	defer cl.Close()

	resp, err := svc.Answer(context.Background(), req)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResponse(cmd.OutOrStdout(), resp)
	return nil
}

func askRequest(cmd *cobra.Command, args []string) (types.Request, error) {
	if path, _ := cmd.Flags().GetString("request"); path != "" {
		var data []byte
		var err error
		if path == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return types.Request{}, fmt.Errorf("reading request: %w", err)
		}
		return orchestrator.DecodeRequest(data)
	}

	if len(args) == 0 {
		return types.Request{}, fmt.Errorf("provide a question or --request")
	}
	book, _ := cmd.Flags().GetString("book")
	lang, _ := cmd.Flags().GetString("lang")

	req := types.Request{
		Message:        strings.Join(args, " "),
		Scope:          types.ScopeLibrary,
		TargetLanguage: lang,
	}
	if book != "" {
		req.Scope = types.ScopeBook
		req.BookID = book
	}
	return req, nil
}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	missColor    = color.New(color.FgYellow)
	faintColor   = color.New(color.Faint)
)

// printResponse renders a response for a terminal.
func printResponse(w io.Writer, resp types.Response) {
	if !resp.Found {
		missColor.Fprintln(w, resp.Answer)
		faintColor.Fprintf(w, "detected: %s\n", resp.DetectedLanguage)
		return
	}

	headingColor.Fprintf(w, "%s › %s\n", resp.Source.Title, resp.Source.Section)
	fmt.Fprintln(w, resp.Answer)
	if len(resp.Supporting) > 0 {
		fmt.Fprintln(w)
		for _, s := range resp.Supporting {
			faintColor.Fprintf(w, "  - %s\n", s)
		}
	}
	if !resp.Localized {
		missColor.Fprintf(w, "(no %s translation available; answer shown in English)\n", resp.TargetLanguage)
	}
	faintColor.Fprintf(w, "book: %s  detected: %s  target: %s  score: %.3f\n",
		resp.Source.ID, resp.DetectedLanguage, resp.TargetLanguage, resp.Score)
}
