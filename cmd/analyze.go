package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/sentra-emo/internal/application"
)

func newAnalyzeCmd(loader *appLoader) *cobra.Command {
	var (
		userID    string
		username  string
		asJSON    bool
		noSpinner bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze one text; reads stdin when no text is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loader.load()
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 1<<20))
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}

			command := application.AnalyzeCommand{Text: text, UserID: userID, Username: username}
			var result application.AnalysisResult
			analyze := func(ctx context.Context) error {
				var err error
				result, err = app.analyze.Analyze(ctx, command)
				return err
			}
			if asJSON || noSpinner {
				err = analyze(cmd.Context())
			} else {
				err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Analyzing...", analyze)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			rendered, err := app.renderAnalysis(result)
			if err != nil {
				return fmt.Errorf("render analysis: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id whose affect state is updated")
	cmd.Flags().StringVar(&username, "username", "", "display name stored with the user state")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "do not show a progress spinner")

	return cmd
}
