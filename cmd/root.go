package cmd

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/bnema/sentra-emo/internal/adapters/config"
)

func Execute() error {
	return newRootCmd().Execute()
}

// appLoader wires the application on first use so flags are parsed before configuration loads.
type appLoader struct {
	opts    config.Options
	verbose bool
	once    sync.Once
	app     *app
	err     error
}

func (l *appLoader) load() (*app, error) {
	l.once.Do(func() {
		l.app, l.err = wireApp(l.opts, l.verbose)
	})
	return l.app, l.err
}

func (l *appLoader) close() error {
	if l.app == nil {
		return nil
	}
	return l.app.Close()
}

func newRootCmd() *cobra.Command {
	loader := &appLoader{}

	rootCmd := &cobra.Command{
		Use:           "sentra",
		Short:         "Sentra: sentiment, emotion and affect analysis",
		Long:          "sentra classifies text into sentiment and emotion distributions, derives valence/arousal/dominance and stress, and tracks per-user affect over time. Run `sentra serve` for the HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return loader.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&loader.opts.ConfigFile, "config", "", "settings file (TOML, YAML or JSON); defaults to $"+config.FileEnvKey)
	rootCmd.PersistentFlags().BoolVarP(&loader.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&loader.opts.EnvFile, "env-file", "", "dotenv file to load before reading the environment (default .env)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(loader),
		newAnalyzeCmd(loader),
		newUserCmd(loader),
		newModelsCmd(loader),
		newTokenCmd(loader),
	)

	return rootCmd
}
