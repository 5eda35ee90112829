package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(loader *appLoader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Show the configured backend, models, tokens and tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loader.load()
			if err != nil {
				return err
			}

			var poolErr error
			if app.pool != nil {
				poolErr = app.pool.Validate(cmd.Context())
			}

			report := app.analyze.Status(app.sources)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "backend: %s\n", report.Backend)
			if report.Provider != "" {
				_, _ = fmt.Fprintf(out, "provider: %s\n", report.Provider)
			}
			_, _ = fmt.Fprintf(out, "sentiment model: %s\n", report.Models.Sentiment)
			_, _ = fmt.Fprintf(out, "emotion model: %s\n", report.Models.Emotion)
			_, _ = fmt.Fprintf(out, "vad table: %s (%d labels)\n", report.VADSource, report.VADLabels)
			_, _ = fmt.Fprintf(out, "aliases: %s (%d)\n", report.AliasSource, report.AliasCount)
			for _, token := range report.Tokens {
				state := "ready"
				if token.Cooling {
					state = "cooling until " + token.CooldownUntil.Format("15:04:05")
				}
				_, _ = fmt.Fprintf(out, "token %d: %s %s\n", token.Index, token.Token, state)
			}
			if poolErr != nil {
				_, _ = fmt.Fprintf(out, "tokens: %v\n", poolErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
