package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/peloton/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration after file and environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			if flags.configPath != "" {
				v.SetConfigFile(flags.configPath)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "read config %s", flags.configPath)
				}
			}
			if _, err := config.Decode(v); err != nil {
				return err
			}
			out, err := json.MarshalIndent(config.AllSettings(v), "", "  ")
			if err != nil {
				return errors.Wrap(err, "encode config")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
