package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the schema and seed the goal catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config()
			if err != nil {
				return err
			}
			db, logger, err := open(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)
			logger.Info("database ready")
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}
