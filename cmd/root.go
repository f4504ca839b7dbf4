package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Eursukkul/event-registration/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "registration",
	Short:         "Event registration ledger",
	Long:          `Registers attendees for events, manages seats and the waitlist, and checks people in.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "YAML config file (keys match the env names in lower case)")
	flags.String("storage", "", "storage backend: file or postgres")
	flags.String("data-dir", "", "data directory for the file backend")
	flags.String("backup-dir", "", "backup directory for the file backend")
	flags.String("badge-dir", "", "directory badges are written to")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
}

// initConfig layers configuration: environment and .env first, then the
// config file, then flags given on the command line.
func initConfig(cmd *cobra.Command) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})
	if err := loaded.Override(v); err != nil {
		return err
	}

	loaded.SetupLogging()
	cfg = loaded
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
