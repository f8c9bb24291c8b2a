package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/config"
)

func newConfigCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "prints the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper()
			if err != nil {
				return err
			}
			if out != "" {
				return config.Save(out, cfg)
			}
			b, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the YAML to this file instead of stdout")
	return cmd
}
