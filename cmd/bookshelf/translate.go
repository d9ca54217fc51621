// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text through the configured bridge",
	Long: `Translate exercises the translation bridge directly. Without --to the
text is detected and translated to English, as questions are. With --to the
text is treated as English and translated to that language, as answers are.`,
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().String("to", "", "translate English text to this language")
	translateCmd.Flags().Bool("languages", false, "list the backend's languages and exit")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	bridge, cl, err := newBridge()
	if err != nil {
		return err
	}
	defer cl.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("languages"); list {
		langs, err := bridge.Backend().Languages(ctx)
		if err != nil {
			return err
		}
		for _, l := range langs {
			fmt.Fprintln(out, l)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("provide text to translate")
	}
	text := strings.Join(args, " ")

	if target, _ := cmd.Flags().GetString("to"); target != "" {
		translated, err := bridge.FromEnglish(ctx, text, target)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, translated)
		return nil
	}

	res, err := bridge.ToEnglish(ctx, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res.Text)
	fmt.Fprintf(out, "detected: %s  translated: %t\n", res.Detected, res.Translated)
	return nil
}
