package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/sentra-emo/internal/adapters/render/profile"
	"github.com/bnema/sentra-emo/internal/application"
	"github.com/bnema/sentra-emo/internal/domain"
)

const profileStaleAfter = 24 * time.Hour

func newUserCmd(loader *appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect tracked users",
	}

	cmd.AddCommand(
		newUserShowCmd(loader),
		newUserEventsCmd(loader),
		newUserExportCmd(loader),
	)

	return cmd
}

type userShowOutput struct {
	User      domain.UserState        `json:"user"`
	Events    int                     `json:"events"`
	Analytics domain.AnalyticsSummary `json:"analytics"`
}

func newUserShowCmd(loader *appLoader) *cobra.Command {
	var (
		days   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show <userid>",
		Short: "Show the affect profile and analytics of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loader.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			state, err := app.tracker.Get(ctx, args[0])
			if err != nil {
				return err
			}
			count, err := app.events.Count(ctx, args[0])
			if err != nil {
				return err
			}
			summary, err := app.analytics.Summary(ctx, args[0], application.AnalyticsQuery{Days: days})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), userShowOutput{User: state, Events: count, Analytics: summary})
			}

			rendered, err := app.renderUser(state, profile.RenderOptions{
				Now:        app.now(),
				StaleAfter: profileStaleAfter,
				Summary:    &summary,
			})
			if err != nil {
				return fmt.Errorf("render profile: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\nstored events: %d\n", rendered, count)
			return err
		},
	}

	cmd.Flags().IntVar(&days, "days", domain.DefaultAnalyticsDays, "analytics window in days")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func newUserEventsCmd(loader *appLoader) *cobra.Command {
	var (
		limit      int
		start, end string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "events <userid>",
		Short: "List the most recent events of a user, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loader.load()
			if err != nil {
				return err
			}

			query := domain.EventQuery{Limit: limit}
			if query.Start, err = parseTimeFlag(start, "start"); err != nil {
				return err
			}
			if query.End, err = parseTimeFlag(end, "end"); err != nil {
				return err
			}

			events, err := app.tracker.Events(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}

			if asJSON {
				if events == nil {
					events = []domain.EmotionEvent{}
				}
				return writeJSON(cmd.OutOrStdout(), events)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				_, err = fmt.Fprintln(out, "no events")
				return err
			}
			for _, event := range events {
				top := "-"
				if best, ok := event.Emotions.Top(); ok {
					top = best.Label
				}
				if _, err := fmt.Fprintf(out, "%s  %-8s  v=%.2f a=%.2f d=%.2f  stress=%-6s  %-12s  %s\n",
					event.Timestamp.Format(time.RFC3339), event.SentimentLabel,
					event.VAD.Valence, event.VAD.Arousal, event.VAD.Dominance,
					event.Stress.Level, top, event.TextExcerpt); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultEventLimit, "maximum number of events")
	cmd.Flags().StringVar(&start, "start", "", "only events at or after this time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "only events at or before this time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func newUserExportCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "export <userid>",
		Short: "Export the full event log of a user to Parquet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loader.load()
			if err != nil {
				return err
			}

			result, err := app.analytics.Export(cmd.Context(), application.ExportCommand{UserID: args[0]})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s (%s)\n", result.Events, result.Path, result.Format)
			return err
		},
	}
}

func parseTimeFlag(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: --%s must be RFC 3339 or YYYY-MM-DD", domain.ErrValidation, name)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
