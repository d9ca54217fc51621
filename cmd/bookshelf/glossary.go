// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookshelf-qa/internal/translate"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Manage the offline translation glossary",
	Long: `Glossary manages the SQLite dictionary used by the glossary translation
backend (translation.backend: glossary). Each YAML file names a language and
maps terms in that language to English.`,
}

var glossaryImportCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import glossary YAML files into the dictionary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGlossaryImport,
}

var glossaryLanguagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List languages present in the dictionary",
	RunE:  runGlossaryLanguages,
}

func init() {
	glossaryCmd.AddCommand(glossaryImportCmd)
	glossaryCmd.AddCommand(glossaryLanguagesCmd)
	rootCmd.AddCommand(glossaryCmd)
}

func runGlossaryImport(cmd *cobra.Command, args []string) error {
	g, err := translate.OpenGlossary(cfg.Translation.GlossaryDB)
	if err != nil {
		return err
	}
	defer g.Close()

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		summary, err := g.ImportFile(context.Background(), path)
		if err != nil {
			fmt.Fprintf(out, "  failed %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "  imported %s: %s, %d entries, %d skipped\n", path, summary.Language, summary.Imported, summary.Skipped)
	}
	if failed > 0 {
		return fmt.Errorf("%d glossary file(s) failed", failed)
	}
	return nil
}

func runGlossaryLanguages(cmd *cobra.Command, args []string) error {
	g, err := translate.OpenGlossary(cfg.Translation.GlossaryDB)
	if err != nil {
		return err
	}
	defer g.Close()

	langs, err := g.Languages(context.Background())
	if err != nil {
		return err
	}
	for _, l := range langs {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
	return nil
}
