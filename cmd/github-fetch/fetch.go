// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/harvest/internal/ghrepo"
	"github.com/pdiddy/harvest/internal/git"
	"github.com/pdiddy/harvest/internal/secrets"
	"github.com/pdiddy/harvest/internal/throttle"
	"github.com/pdiddy/harvest/pkg/types"
)

const (
	defaultDest            = "./repos"
	defaultIntervalSeconds = 10
	defaultTimeout         = 60 * time.Second
	defaultUserAgent       = "harvest-github-fetch/0.1"
)

// options is the resolved configuration for one run.
type options struct {
	Owner  ghrepo.Owner
	Filter types.FilterConfig
	Clone  types.CloneConfig
	Client ghrepo.ClientConfig
}

// loadOptions resolves the owner from flags and everything else through
// viper. An interval below the floor fails with exit code 2.
func loadOptions(cmd *cobra.Command) (options, error) {
	interval := time.Duration(viper.GetInt("interval")) * time.Second
	if err := ghrepo.ValidateInterval(interval); err != nil {
		return options{}, withCode(2, err)
	}

	var owner ghrepo.Owner
	if org, _ := cmd.Flags().GetString("org"); org != "" {
		owner = ghrepo.Owner{Login: org, Org: true}
	} else {
		user, _ := cmd.Flags().GetString("user")
		owner = ghrepo.Owner{Login: user}
	}

	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	dest := viper.GetString("dest")
	if dest == "" {
		dest = defaultDest
	}

	return options{
		Owner: owner,
		Filter: types.FilterConfig{
			Match:           viper.GetString("match"),
			Regex:           viper.GetString("regex"),
			IncludeArchived: viper.GetBool("include_archived"),
			ExcludeForks:    viper.GetBool("exclude_forks"),
		},
		Clone: types.CloneConfig{
			Dest:         dest,
			Interval:     interval,
			PullIfExists: viper.GetBool("pull_if_exists"),
			SleepOnSkip:  viper.GetBool("sleep_on_skip"),
		},
		Client: ghrepo.ClientConfig{
			HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
			APIURL:     viper.GetString("api_url"),
			Token:      viper.GetString("token"),
		},
	}, nil
}

// tokenFromSecrets reads the GitHub token file from dir, if any.
func tokenFromSecrets(dir string, warn io.Writer) (string, error) {
	if dir == "" {
		return "", nil
	}
	store, err := secrets.Load(dir, warn)
	if err != nil {
		return "", err
	}
	if len(store) > 0 {
		fmt.Fprintf(warn, "Loaded secrets from %s: %v\n", dir, store.Keys())
	}
	return store.Get(secrets.GitHubToken), nil
}

// runFetch validates configuration before touching git or the network,
// then lists, filters, and syncs.
func runFetch(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if opts.Client.Token == "" {
		token, err := tokenFromSecrets(viper.GetString("secrets_dir"), errOut)
		if err != nil {
			return withCode(1, err)
		}
		opts.Client.Token = token
	}

	gitClient, err := git.New(out)
	if err != nil {
		return withCode(1, err)
	}
	fmt.Fprintln(errOut, "Using git:", gitClient.Path())
	filter, err := ghrepo.NewFilter(opts.Filter)
	if err != nil {
		return withCode(1, err)
	}

	ctx := cmd.Context()
	client, err := ghrepo.NewClient(ctx, opts.Client)
	if err != nil {
		return withCode(1, err)
	}
	lister := ghrepo.NewLister(client)
	lister.Warn = errOut

	runner := &ghrepo.Runner{
		Git:      gitClient,
		Config:   opts.Clone,
		Throttle: throttle.New(opts.Clone.Interval, ghrepo.MinInterval),
		Out:      out,
		Err:      errOut,
	}

	_, err = ghrepo.Run(ctx, opts.Owner, lister, filter, runner)
	return withCode(1, err)
}
