// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bookshelf CLI: grounded answers
// to questions about a fixed library of books, in the asker's language.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/bookshelf-qa/internal/logging"
	"github.com/pdiddy/bookshelf-qa/internal/secrets"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, filled before any verb runs.
	cfg types.Config

	// logger is the process logger built from cfg.Log.
	logger = zap.NewNop()

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Store
)

// rootCmd is the base command for the bookshelf CLI.
var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Answer questions from a library of books",
	Long: `bookshelf answers natural-language questions by retrieving the most
relevant paragraph from a fixed corpus of books. Questions in other languages
are translated to English for retrieval and answers are translated back.

The corpus is a directory of YAML or JSON book files (--corpus). Translation
uses a LibreTranslate service or a local SQLite glossary (translation.backend).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./bookshelf.yaml or ~/.config/bookshelf/bookshelf.yaml)")
	flags.String("corpus", "", "corpus directory (default corpus)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("translator", "", "translation backend: none, libretranslate, glossary")

	viper.BindPFlag("corpus.dir", flags.Lookup("corpus"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("translation.backend", flags.Lookup("translator"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookshelf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookshelf"))
		}
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
