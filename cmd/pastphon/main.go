package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/japaniel/pastphon/pkg/config"
	"github.com/japaniel/pastphon/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "dev"

// cli carries the state shared by every subcommand of one root command.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	c := &cli{v: v}
	config.SetDefaults(v)

	root := &cobra.Command{
		Use:   "pastphon",
		Short: "Transcribe English verb pairs and extract phoneme features",
		Long: `pastphon turns present/past-tense verb spellings into normalized IPA
transcriptions using a pronunciation dictionary, classifies each pair as
regular or irregular, and describes every phoneme by its sonority,
backness and binary articulatory features.`,
		PersistentPreRunE: c.initConfig,
		SilenceUsage:      true,
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: ./pastphon.yaml or $HOME/.config/pastphon/pastphon.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")

	root.AddCommand(c.transcribeCmd())
	root.AddCommand(c.featuresCmd())
	root.AddCommand(c.profileCmd())
	root.AddCommand(c.migrateCmd())
	root.AddCommand(c.backfillCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(viper.New()).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"log-level":      "logging.level",
	"log-format":     "logging.format",
	"verbs":          "verbs.path",
	"dictionary":     "dictionary.path",
	"dictionary-url": "dictionary.url",
	"db":             "database.path",
	"workers":        "ingest.workers",
	"batch-size":     "ingest.batch_size",
	"metrics-file":   "metrics.textfile",
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	// Bind the running command's flags only: several commands share a key.
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = c.v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			c.v.AddConfigPath(filepath.Join(home, ".config", "pastphon"))
		}
		c.v.SetConfigName("pastphon")
		c.v.SetConfigType("yaml")
	}

	c.v.SetEnvPrefix("PASTPHON")
	c.v.SetEnvKeyReplacer(envKeyReplacer)
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	logging.Init(cfg.Logging)

	if used := c.v.ConfigFileUsed(); used != "" {
		log := logging.WithComponent("cli")
		log.Debug().Str("file", used).Msg("loaded config")
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pastphon %s\n", version)
		},
	}
}
