// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biofetch CLI. It fetches sample
// and run metadata from GEO, SRA and ENA, normalizes each catalog to a fixed
// column set, links GEO samples to SRA runs, and exports or stores the
// result.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biofetch/internal/secrets"
	"github.com/pdiddy/biofetch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds plain-text credential files read at startup.
const secretsDir = ".secrets/"

var (
	// cfg is resolved once per invocation in PersistentPreRunE.
	cfg types.Config

	logger = slog.Default()
)

// rootCmd is the base command for the biofetch CLI.
var rootCmd = &cobra.Command{
	Use:   "biofetch",
	Short: "Fetch and link GEO / SRA / ENA sample metadata",
	Long: `biofetch retrieves metadata from three public archives and normalizes it
to one table per catalog:

  geo  NCBI Gene Expression Omnibus series (one row per GSM sample)
  sra  NCBI Sequence Read Archive RunInfo (one row per run)
  ena  EBI European Nucleotide Archive read runs

It can link a GEO series to its SRA runs on the sample accession and
export the result as CSV, TSV, JSON or YAML, or keep it in a local
snapshot store for later use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		s.ApplyNCBI(&c.Fetch.NCBI)

		logger, err = newLogger(c.Log.Level)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", s.Names())
		}
		cfg = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./biofetch.yaml or ~/.config/biofetch/biofetch.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().String("db", "", "snapshot database path (default biofetch.db)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("biofetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "biofetch"))
		}
	}

	viper.SetEnvPrefix("BIOFETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		stop()
		os.Exit(1)
	}
}
