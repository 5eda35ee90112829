// Package profile renders analysis results and user affect profiles for the terminal.
package profile

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/sentra-emo/internal/application"
	"github.com/bnema/sentra-emo/internal/domain"
)

const barWidth = 24

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
	// Summary adds an analytics section when set.
	Summary *domain.AnalyticsSummary
}

// RenderUser draws the dual-EMA profile of a user.
func RenderUser(state domain.UserState, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return userView(state, opts, s)
	})
}

// RenderAnalysis draws one analysis result.
func RenderAnalysis(result application.AnalysisResult) (string, error) {
	return run(func(s styles) string {
		return analysisView(result, s)
	})
}

func userView(state domain.UserState, opts RenderOptions, s styles) string {
	title := state.UserID
	if name := strings.TrimSpace(state.Username); name != "" {
		title = fmt.Sprintf("%s (%s)", name, state.UserID)
	}

	header := fmt.Sprintf("samples: %d  last update: %s", state.SampleCount, formatRelative(state.LastUpdate, opts.Now))
	if !opts.Now.IsZero() && opts.StaleAfter > 0 && !state.LastUpdate.IsZero() && opts.Now.Sub(state.LastUpdate) > opts.StaleAfter {
		header += " " + s.warning.Render("[stale]")
	}

	lines := []string{
		s.user.Render(title),
		s.header.Render(header),
		s.section.Render(s.title.Render("fast / slow EMA")),
		axisLine("valence", state.FastEMA.Valence, state.SlowEMA.Valence, s),
		axisLine("arousal", state.FastEMA.Arousal, state.SlowEMA.Arousal, s),
		axisLine("dominance", state.FastEMA.Dominance, state.SlowEMA.Dominance, s),
	}

	if state.LastSentiment != "" || state.LastStress.Level != "" {
		lines = append(lines, s.detail.Render(fmt.Sprintf("last sentiment: %s  last stress: %s (%.2f)",
			orNA(state.LastSentiment), orNA(string(state.LastStress.Level)), state.LastStress.Score)))
	}

	lines = append(lines, s.section.Render(s.title.Render("top emotions")))
	lines = append(lines, emotionLines(state.TopEmotions, s)...)

	if opts.Summary != nil {
		lines = append(lines, s.section.Render(summaryView(*opts.Summary, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func summaryView(summary domain.AnalyticsSummary, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("analytics %s .. %s", summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02"))),
		s.header.Render(fmt.Sprintf("events: %d  positive: %.0f%%  negative: %.0f%%", summary.Count, summary.PositiveRatio*100, summary.NegativeRatio*100)),
	}
	if summary.Count == 0 {
		lines = append(lines, s.empty.Render("No events in window."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines,
		statLine("valence", summary.Valence, s),
		statLine("arousal", summary.Arousal, s),
		statLine("dominance", summary.Dominance, s),
		s.detail.Render(fmt.Sprintf("stress mean: %.2f  %s", summary.Stress.Mean, levelCounts(summary.Stress.Levels))),
	)
	if summary.Personality != nil {
		p := summary.Personality
		lines = append(lines, s.detail.Render(fmt.Sprintf("personality: %s (%s, %d samples)", p.Type, p.Method, p.Samples)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func analysisView(result application.AnalysisResult, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("sentiment: %s", result.Sentiment.Label)),
		s.header.Render(fmt.Sprintf("models: %s / %s  latency: %s", result.Models.Sentiment, result.Models.Emotion, result.Latency.Round(time.Millisecond))),
		s.section.Render(s.title.Render("affect")),
		valueLine("valence", result.VAD.Valence, s),
		valueLine("arousal", result.VAD.Arousal, s),
		valueLine("dominance", result.VAD.Dominance, s),
		valueLine("stress", result.Stress.Score, s) + " " + s.axisMeta.Render(string(result.Stress.Level)),
		s.section.Render(s.title.Render("emotions")),
	}
	lines = append(lines, emotionLines(result.Emotions.Sorted(), s)...)

	if result.User != nil {
		lines = append(lines, s.section.Render(s.user.Render(fmt.Sprintf("user %s: %d samples", result.User.UserID, result.User.SampleCount))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func emotionLines(emotions []domain.LabelScore, s styles) []string {
	if len(emotions) == 0 {
		return []string{s.empty.Render("No emotions recorded.")}
	}

	width := 0
	for _, e := range emotions {
		width = max(width, len(e.Label))
	}

	lines := make([]string, 0, len(emotions))
	for _, e := range emotions {
		label := s.axisKey.Render(fmt.Sprintf("%-*s", width, e.Label))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, " ", renderBar(e.Score, s), " ", s.axisMeta.Render(fmt.Sprintf("%.2f", e.Score))))
	}
	return lines
}

func axisLine(name string, fast, slow float64, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.axisKey.Render(fmt.Sprintf("%-9s", name)),
		" ",
		renderBar(fast, s),
		" ",
		lipgloss.NewStyle().Foreground(interpolateColor(fast, 0, 1)).Render(fmt.Sprintf("%.2f", fast)),
		" ",
		s.axisMeta.Render(fmt.Sprintf("(slow %.2f, %s)", slow, trend(fast, slow))),
	)
}

func valueLine(name string, value float64, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.axisKey.Render(fmt.Sprintf("%-9s", name)),
		" ",
		renderBar(value, s),
		" ",
		s.axisMeta.Render(fmt.Sprintf("%.2f", value)),
	)
}

func statLine(name string, stats domain.AxisStats, s styles) string {
	return s.detail.Render(fmt.Sprintf("%-9s mean %.2f  std %.2f", name, stats.Mean, stats.Std))
}

// trend compares the fast EMA with the slow baseline.
func trend(fast, slow float64) string {
	switch diff := fast - slow; {
	case diff > 0.05:
		return "rising"
	case diff < -0.05:
		return "falling"
	default:
		return "steady"
	}
}

func renderBar(fraction float64, s styles) string {
	filled := int(math.Round(float64(barWidth) * clampUnit(fraction)))
	filled = min(max(filled, 0), barWidth)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", barWidth-filled)),
		s.barBracket.Render("]"),
	)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func levelCounts(levels map[domain.StressLevel]int) string {
	order := []domain.StressLevel{domain.StressLow, domain.StressMedium, domain.StressHigh}
	parts := make([]string, 0, len(order))
	for _, level := range order {
		parts = append(parts, fmt.Sprintf("%s=%d", level, levels[level]))
	}
	return strings.Join(parts, " ")
}

func formatRelative(at, now time.Time) string {
	if at.IsZero() {
		return "never"
	}
	if now.IsZero() || at.After(now) {
		return at.Format(time.RFC3339)
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute") + " ago"
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour") + " ago"
	default:
		return plural(int(elapsed.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "n/a"
	}
	return v
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240.0+15.0*normalized)))
}
