package application

import (
	"fmt"
	"strings"

	"github.com/bnema/sentra-emo/internal/domain"
)

type AnalyzeCommand struct {
	Text     string
	UserID   string
	Username string
}

func (c AnalyzeCommand) normalize() (AnalyzeCommand, error) {
	c.Text = strings.TrimSpace(c.Text)
	c.UserID = strings.TrimSpace(c.UserID)
	c.Username = strings.TrimSpace(c.Username)
	if c.Text == "" {
		return AnalyzeCommand{}, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	return c, nil
}

type AnalyzeBatchCommand struct {
	Texts    []string
	UserID   string
	Username string
}

// normalize drops blank texts and fails when none remain.
func (c AnalyzeBatchCommand) normalize() (AnalyzeBatchCommand, error) {
	texts := make([]string, 0, len(c.Texts))
	for _, text := range c.Texts {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			texts = append(texts, trimmed)
		}
	}
	if len(texts) == 0 {
		return AnalyzeBatchCommand{}, fmt.Errorf("%w: texts must contain at least one non-empty text", domain.ErrValidation)
	}

	c.Texts = texts
	c.UserID = strings.TrimSpace(c.UserID)
	c.Username = strings.TrimSpace(c.Username)
	return c, nil
}

type ExportCommand struct {
	UserID string
}
