package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func indicesListCmd(log zerolog.Logger) *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:           "indices-list",
		Short:         "List indices with their aliases, types and settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, err := setup(cmd, flags, log)
			if err != nil {
				return err
			}

			n, err := writeRecords(os.Stdout, flags.output, eng.ListIndices(cmd.Context()))
			if err != nil {
				return err
			}
			log.Info().Int("indices", n).Msg("listing finished")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
