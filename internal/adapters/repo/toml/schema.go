package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int        `toml:"version"`
	User    userSchema `toml:"user"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported user state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type userSchema struct {
	UserID         string             `toml:"userid"`
	Username       string             `toml:"username,omitempty"`
	LastUpdate     string             `toml:"last_update"`
	SampleCount    int                `toml:"sample_count"`
	LastSentiment  string             `toml:"last_sentiment,omitempty"`
	FastEMA        vadSchema          `toml:"fast_ema"`
	SlowEMA        vadSchema          `toml:"slow_ema"`
	LastStress     stressSchema       `toml:"last_stress"`
	TopEmotions    []labelSchema      `toml:"top_emotions,omitempty"`
	EmotionWeights map[string]float64 `toml:"emotion_weights,omitempty"`
}

type vadSchema struct {
	Valence   float64 `toml:"valence"`
	Arousal   float64 `toml:"arousal"`
	Dominance float64 `toml:"dominance"`
}

type stressSchema struct {
	Score float64 `toml:"score"`
	Level string  `toml:"level"`
}

type labelSchema struct {
	Label string  `toml:"label"`
	Score float64 `toml:"score"`
}
