package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/peloton/config"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	envFile    string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	var logFile *os.File

	root := &cobra.Command{
		Use:           "peloton",
		Short:         "Tactical cycling peloton simulation",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnv(flags.envFile); err != nil {
				return err
			}
			logFile = setupLogging(flags.debug)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (toml, yaml or json)")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file with PELOTON_ overrides, ignored when missing")
	pf.BoolVar(&flags.debug, "debug", false, "write diagnostics to logs/"+logFileName)

	root.AddCommand(
		newRunCmd(flags),
		newHeadlessCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

// loadEnv applies a dotenv file without overriding variables already set
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return errors.Wrapf(godotenv.Load(path), "load env %s", path)
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	return config.Load(flags.configPath)
}
