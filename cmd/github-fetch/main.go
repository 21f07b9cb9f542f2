// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the github-fetch CLI.
// Implements: github-fetch (CLI surface, configuration, exit codes).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/harvest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// withCode wraps err so main exits with code.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode returns the code carried by err, or 1.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "github-fetch (--user <login> | --org <login>)",
	Short: "Clone every repository of a GitHub user or organization",
	Long: `github-fetch lists the repositories of one GitHub user or organization,
filters them by substring or regular expression, and clones each match into
<dest>/<name>. Existing clones are skipped or fast-forwarded. Successive git
actions are spaced by --interval seconds (at least 10).

Set GITHUB_FETCH_TOKEN to raise the API rate limit.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.Version = version

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./github-fetch.yaml or ~/.config/github-fetch/github-fetch.yaml)")

	flags := rootCmd.Flags()
	flags.String("user", "", "GitHub user whose repositories are fetched")
	flags.String("org", "", "GitHub organization whose repositories are fetched")
	flags.String("match", "", "case-insensitive substring matched against name, full name, and description")
	flags.String("regex", "", "regular expression matched against name, full name, and description")
	flags.String("dest", defaultDest, "directory that receives the clones")
	flags.Int("interval", defaultIntervalSeconds, "seconds between git actions (minimum 10)")
	flags.Bool("include-archived", false, "also clone archived repositories")
	flags.Bool("exclude-forks", false, "skip forked repositories")
	flags.Bool("pull-if-exists", false, "run git pull --ff-only on existing clones")
	flags.Bool("sleep-on-skip", false, "wait the interval after existing clones too")
	flags.String("token", "", "GitHub API token (or GITHUB_FETCH_TOKEN)")
	flags.String("secrets-dir", secrets.DefaultDir, "directory holding a github-token file, read when no token is set")
	flags.String("api-url", "", "GitHub API base URL (default https://api.github.com/)")
	flags.Duration("timeout", defaultTimeout, "timeout for connecting and for response headers; body reads are not limited")

	rootCmd.MarkFlagsMutuallyExclusive("user", "org")
	rootCmd.MarkFlagsOneRequired("user", "org")

	bindFlags(flags, flagKeys)
}

// flagKeys maps viper keys to flag names.
var flagKeys = map[string]string{
	"match":            "match",
	"regex":            "regex",
	"dest":             "dest",
	"interval":         "interval",
	"include_archived": "include-archived",
	"exclude_forks":    "exclude-forks",
	"pull_if_exists":   "pull-if-exists",
	"sleep_on_skip":    "sleep-on-skip",
	"token":            "token",
	"secrets_dir":      "secrets-dir",
	"api_url":          "api-url",
	"timeout":          "timeout",
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
		viper.SetConfigName("github-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "github-fetch"))
		}
	}

	viper.SetEnvPrefix("GITHUB_FETCH")
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
		os.Exit(exitCode(err))
	}
}
