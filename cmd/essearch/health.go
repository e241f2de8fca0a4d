package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func clusterHealthCmd(log zerolog.Logger) *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:           "cluster-health",
		Short:         "Fetch the cluster health summary as a single record",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, err := setup(cmd, flags, log)
			if err != nil {
				return err
			}

			if _, err := writeRecords(os.Stdout, flags.output, eng.ClusterHealth(cmd.Context())); err != nil {
				return err
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
