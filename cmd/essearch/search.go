package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brunotm/elasticsplunk/internal/client"
	"github.com/brunotm/elasticsplunk/internal/config"
	"github.com/brunotm/elasticsplunk/internal/engine"
)

func searchCmd(log zerolog.Logger) *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "essearch",
		Short: "Search Elasticsearch and stream flat events",
		Long: "essearch translates a time window and query string into Elasticsearch " +
			"search calls and streams each hit as a flat record with a _time field. " +
			"Records go to stdout, diagnostics to stderr.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags, log)
		},
	}
	flags.register(cmd)
	return cmd
}

func runSearch(cmd *cobra.Command, flags *searchFlags, log zerolog.Logger) error {
	cfg, eng, err := setup(cmd, flags, log)
	if err != nil {
		return err
	}

	stream := eng.Search(cmd.Context(), cfg)
	defer func() {
		if err := stream.Close(); err != nil {
			log.Warn().Err(err).Msg("clear scroll cursor")
		}
	}()

	n, err := writeRecords(os.Stdout, flags.output, stream)
	if err != nil {
		return err
	}
	log.Info().Int("records", n).Msg("search finished")
	return nil
}

// setup resolves the invocation settings and builds the engine behind them.
func setup(cmd *cobra.Command, flags *searchFlags, log zerolog.Logger) (config.Settings, *engine.Engine, error) {
	profiles, err := config.LoadProfiles(config.ProfilePath)
	if err != nil {
		return config.Settings{}, nil, err
	}

	hr, err := hostRange()
	if err != nil {
		return config.Settings{}, nil, err
	}

	cfg, err := config.Resolve(flags.options(cmd), profiles, hr, time.Now())
	if err != nil {
		return config.Settings{}, nil, err
	}

	c, err := client.NewDefaultClient(client.ClientConfig{
		Hosts:          cfg.Hosts,
		UseTLS:         cfg.UseTLS,
		VerifyCerts:    cfg.VerifyCerts,
		Username:       cfg.Username,
		Password:       cfg.Password,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return config.Settings{}, nil, err
	}

	log.Debug().
		Strs("hosts", c.BaseURLs()).
		Int64("earliest", cfg.Earliest).
		Int64("latest", cfg.Latest).
		Msg("resolved settings")

	return cfg, engine.New(c, log), nil
}
