package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/config"
)

// newRootCmd represents the base command when called without any subcommands
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "racetrack",
		Short:        "Procedural keirin and boat race scenes streamed to a preview surface",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, viper.GetViper())
		},
	}
	cmd.PersistentFlags().String("config", "",
		"config file (default is $HOME/.racetrack.yaml)")
	cmd.PersistentFlags().String(config.KeyLogLevel, config.Default().LogLevel,
		"controls the log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set, then binds the
// flags of the running command.
func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	config.SetDefaults(v)

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".racetrack")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}

	return bindFlags(cmd, v)
}

// bindFlags ties each cobra flag to its viper key so a changed flag wins over
// the file and the environment.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "config", "help", "output":
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("could not bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}
