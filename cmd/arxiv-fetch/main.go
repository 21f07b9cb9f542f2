// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-fetch CLI.
// Implements: arxiv-fetch (CLI surface, configuration).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the arxiv-fetch command; it takes the search query as its only
// argument.
var rootCmd = &cobra.Command{
	Use:   "arxiv-fetch <query>",
	Short: "Search arXiv and download the matching papers as PDF",
	Long: `arxiv-fetch runs one arXiv search and downloads every result that has a
PDF link into the output directory, pausing one second between downloads.
Failures are reported per paper and the run continues.

The query uses arXiv search syntax, e.g. "cat:cs.CL AND ti:transformer".`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.Version = version

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-fetch.yaml or ~/.config/arxiv-fetch/arxiv-fetch.yaml)")

	flags := rootCmd.Flags()
	flags.IntP("max-results", "n", defaultMaxResults, "maximum number of papers to fetch")
	flags.StringP("output-dir", "o", defaultOutputDir, "directory that receives the PDFs")
	flags.String("sort-by", defaultSortBy, "sort field: relevance, lastUpdatedDate, or submittedDate")
	flags.String("sort-order", defaultSortOrder, "sort direction: ascending or descending")
	flags.String("save-query", "", "write the query and parsed results to this YAML file")
	flags.Duration("timeout", defaultTimeout, "timeout for connecting and for response headers; body reads are not limited")
	flags.String("user-agent", defaultUserAgent, "User-Agent header for arXiv requests")

	bindFlags(flags, map[string]string{
		"max_results": "max-results",
		"output_dir":  "output-dir",
		"sort_by":     "sort-by",
		"sort_order":  "sort-order",
		"save_query":  "save-query",
		"timeout":     "timeout",
		"user_agent":  "user-agent",
	})
}

// bindFlags maps viper keys to flags so config file and
// environment values fill in flags left unset.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-fetch"))
		}
	}

	viper.SetEnvPrefix("ARXIV_FETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
