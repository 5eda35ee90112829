package application

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const (
	KeyAppHost             = "APP_HOST"
	KeyAppPort             = "APP_PORT"
	KeyBackend             = "EMO_BACKEND"
	KeyProvider            = "EMO_ONLINE_PROVIDER"
	KeyTokens              = "EMO_ONLINE_TOKENS"
	KeyTokenCooldown       = "EMO_ONLINE_TOKEN_COOLDOWN_SEC"
	KeyOnlineSentiment     = "EMO_ONLINE_SENTIMENT_MODEL"
	KeyOnlineEmotion       = "EMO_ONLINE_EMOTION_MODEL"
	KeyOnlineGPU           = "EMO_ONLINE_GPU"
	KeyOnlineMaxRPS        = "EMO_ONLINE_MAX_RPS"
	KeyOnlineTimeout       = "EMO_ONLINE_TIMEOUT_SEC"
	KeyLocalSentimentURL   = "LOCAL_SENTIMENT_URL"
	KeyLocalEmotionURL     = "LOCAL_EMOTION_URL"
	KeyLocalSentiment      = "SENTRA_SENTIMENT_MODEL"
	KeyLocalEmotion        = "SENTRA_EMOTION_MODEL"
	KeySentimentNeutral    = "SENTRA_SENTIMENT_NEUTRAL"
	KeyUseAlias            = "EMO_USE_ALIAS"
	KeyMultiLabel          = "EMO_MULTI_LABEL"
	KeyThreshold           = "EMO_THRESHOLD"
	KeyTopK                = "EMO_TOPK"
	KeyMinEmotionScore     = "EMO_MIN_EMOTION_SCORE"
	KeyVADMapFile          = "EMO_VAD_MAP_FILE"
	KeyLabelAliasFile      = "EMO_LABEL_ALIAS_FILE"
	KeyNegativeFile        = "EMO_NEGATIVE_FILE"
	KeyNegValenceThreshold = "NEG_VALENCE_THRESHOLD"
	KeyStressMedium        = "STRESS_MEDIUM_THRESHOLD"
	KeyStressHigh          = "STRESS_HIGH_THRESHOLD"
	KeyFastHalfLife        = "USER_STATE_FAST_HALFLIFE_SEC"
	KeySlowHalfLife        = "USER_STATE_SLOW_HALFLIFE_SEC"
	KeyAdaptGain           = "USER_STATE_ADAPT_GAIN"
	KeyTopEmotions         = "USER_TOP_EMOTIONS"
	KeyExcerptChars        = "USER_EVENT_EXCERPT_CHARS"
	KeyStoreDir            = "USER_STORE_DIR"
	KeyPersonalityMode     = "MBTI_CLASSIFIER"
	KeyPersonalityURL      = "MBTI_EXTERNAL_URL"
	KeyIELow               = "MBTI_IE_A_LOW"
	KeyIEHigh              = "MBTI_IE_A_HIGH"
	KeyTFLow               = "MBTI_TF_POS_LOW"
	KeyTFHigh              = "MBTI_TF_POS_HIGH"
	KeySNLow               = "MBTI_SN_VSTD_LOW"
	KeySNHigh              = "MBTI_SN_VSTD_HIGH"
	KeyJPLow               = "MBTI_JP_ASTD_LOW"
	KeyJPHigh              = "MBTI_JP_ASTD_HIGH"
	KeyPositiveCut         = "MBTI_POS_V_CUT"
	KeyNegativeCut         = "MBTI_NEG_V_CUT"
	KeyAnalyticsMaxEvents  = "MBTI_ANALYTICS_MAX_EVENTS"
	KeyMetricsCapacity     = "METRICS_CAPACITY"
	KeyLogLevel            = "LOG_LEVEL"
)

// SettingAliases lists legacy environment names accepted for a key, in lookup order.
var SettingAliases = map[string][]string{
	KeyTokens:        {"NLP_CLOUD_API_TOKEN"},
	KeyTokenCooldown: {"NLP_CLOUD_TOKEN_COOLDOWN_SEC"},
	KeyFastHalfLife:  {"USER_EMA_HALF_LIFE_SEC"},
	KeySlowHalfLife:  {"USER_BASELINE_HALF_LIFE_SEC"},
}

// SettingDefaults returns the default raw value of every key.
func SettingDefaults() map[string]string {
	return map[string]string{
		KeyAppHost:             "0.0.0.0",
		KeyAppPort:             "7200",
		KeyBackend:             string(domain.BackendLocal),
		KeyProvider:            "",
		KeyTokens:              "",
		KeyTokenCooldown:       "60",
		KeyOnlineSentiment:     "",
		KeyOnlineEmotion:       "",
		KeyOnlineGPU:           "false",
		KeyOnlineMaxRPS:        "0",
		KeyOnlineTimeout:       "30",
		KeyLocalSentimentURL:   "",
		KeyLocalEmotionURL:     "",
		KeyLocalSentiment:      "local-sentiment",
		KeyLocalEmotion:        "local-emotion",
		KeySentimentNeutral:    string(domain.NeutralAuto),
		KeyUseAlias:            "true",
		KeyMultiLabel:          "false",
		KeyThreshold:           "0.25",
		KeyTopK:                "0",
		KeyMinEmotionScore:     "0",
		KeyVADMapFile:          "",
		KeyLabelAliasFile:      "",
		KeyNegativeFile:        "",
		KeyNegValenceThreshold: "0.4",
		KeyStressMedium:        "0.4",
		KeyStressHigh:          "0.7",
		KeyFastHalfLife:        "900",
		KeySlowHalfLife:        "7200",
		KeyAdaptGain:           "2.0",
		KeyTopEmotions:         "6",
		KeyExcerptChars:        "80",
		KeyStoreDir:            "data",
		KeyPersonalityMode:     domain.PersonalityHeuristic,
		KeyPersonalityURL:      "",
		KeyIELow:               "0.48",
		KeyIEHigh:              "0.58",
		KeyTFLow:               "0.45",
		KeyTFHigh:              "0.60",
		KeySNLow:               "0.07",
		KeySNHigh:              "0.14",
		KeyJPLow:               "0.07",
		KeyJPHigh:              "0.14",
		KeyPositiveCut:         "0.56",
		KeyNegativeCut:         "0.44",
		KeyAnalyticsMaxEvents:  "10000",
		KeyMetricsCapacity:     "2000",
		KeyLogLevel:            "info",
	}
}

type OnlineSettings struct {
	Provider       domain.Provider
	Tokens         []string
	TokenCooldown  time.Duration
	SentimentModel string
	EmotionModel   string
	GPU            bool
	MaxRPS         float64
	Timeout        time.Duration
}

// CombinedCall reports whether sentiment and emotion can share one external request.
func (o OnlineSettings) CombinedCall() bool {
	return o.EmotionModel == "" || o.EmotionModel == o.SentimentModel
}

type LocalSettings struct {
	SentimentURL   string
	EmotionURL     string
	SentimentModel string
	EmotionModel   string
}

type TableSettings struct {
	VADMapFile     string
	LabelAliasFile string
	NegativeFile   string
}

type Settings struct {
	Host string
	Port int

	Backend     domain.BackendMode
	Online      OnlineSettings
	Local       LocalSettings
	NeutralMode domain.NeutralMode

	UseAliases bool
	MultiLabel bool
	Threshold  float64
	TopK       int
	MinScore   float64
	Tables     TableSettings

	Stress       domain.StressConfig
	Tracker      domain.TrackerConfig
	ExcerptChars int
	StoreDir     string

	PersonalityMode    string
	PersonalityURL     string
	Personality        domain.PersonalityConfig
	ValenceCuts        domain.ValenceCuts
	AnalyticsMaxEvents int

	MetricsCapacity int
	LogLevel        string
}

// Addr is the HTTP listen address.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadSettings reads every key from cfg. Malformed numbers and unknown enum values fall back to
// their defaults; negative durations and inverted thresholds are rejected with domain.ErrConfig.
func LoadSettings(cfg ports.KeyValueConfig) (Settings, error) {
	r := settingReader{cfg: cfg, defaults: SettingDefaults()}

	provider, err := domain.ParseProvider(r.str(KeyProvider))
	if err != nil {
		provider = domain.ProviderNLPCloud
	}
	backend, err := domain.ParseBackendMode(r.str(KeyBackend))
	if err != nil {
		backend = domain.BackendLocal
	}

	sentimentModel := r.str(KeyOnlineSentiment)
	emotionModel := r.str(KeyOnlineEmotion)
	if emotionModel == "" {
		emotionModel = sentimentModel
	}

	personalityMode := strings.ToLower(r.str(KeyPersonalityMode))
	if personalityMode != domain.PersonalityExternal {
		personalityMode = domain.PersonalityHeuristic
	}

	s := Settings{
		Host:    r.str(KeyAppHost),
		Port:    r.integer(KeyAppPort),
		Backend: backend,
		Online: OnlineSettings{
			Provider:       provider,
			Tokens:         domain.SplitTokens(r.str(KeyTokens)),
			TokenCooldown:  r.seconds(KeyTokenCooldown),
			SentimentModel: sentimentModel,
			EmotionModel:   emotionModel,
			GPU:            r.boolean(KeyOnlineGPU),
			MaxRPS:         r.float(KeyOnlineMaxRPS),
			Timeout:        r.seconds(KeyOnlineTimeout),
		},
		Local: LocalSettings{
			SentimentURL:   r.str(KeyLocalSentimentURL),
			EmotionURL:     r.str(KeyLocalEmotionURL),
			SentimentModel: r.str(KeyLocalSentiment),
			EmotionModel:   r.str(KeyLocalEmotion),
		},
		NeutralMode: domain.ParseNeutralMode(r.str(KeySentimentNeutral)),
		UseAliases:  r.boolean(KeyUseAlias),
		MultiLabel:  r.boolean(KeyMultiLabel),
		Threshold:   r.float(KeyThreshold),
		TopK:        r.integer(KeyTopK),
		MinScore:    r.float(KeyMinEmotionScore),
		Tables: TableSettings{
			VADMapFile:     r.str(KeyVADMapFile),
			LabelAliasFile: r.str(KeyLabelAliasFile),
			NegativeFile:   r.str(KeyNegativeFile),
		},
		Stress: domain.StressConfig{
			NegativeValenceThreshold: r.float(KeyNegValenceThreshold),
			MediumThreshold:          r.float(KeyStressMedium),
			HighThreshold:            r.float(KeyStressHigh),
		},
		Tracker: domain.TrackerConfig{
			FastHalfLife: r.seconds(KeyFastHalfLife),
			SlowHalfLife: r.seconds(KeySlowHalfLife),
			AdaptGain:    r.float(KeyAdaptGain),
			TopK:         r.integer(KeyTopEmotions),
		},
		ExcerptChars:    r.integer(KeyExcerptChars),
		StoreDir:        r.str(KeyStoreDir),
		PersonalityMode: personalityMode,
		PersonalityURL:  r.str(KeyPersonalityURL),
		Personality: domain.PersonalityConfig{
			IE: domain.AxisThresholds{Low: r.float(KeyIELow), High: r.float(KeyIEHigh)},
			TF: domain.AxisThresholds{Low: r.float(KeyTFLow), High: r.float(KeyTFHigh)},
			SN: domain.AxisThresholds{Low: r.float(KeySNLow), High: r.float(KeySNHigh)},
			JP: domain.AxisThresholds{Low: r.float(KeyJPLow), High: r.float(KeyJPHigh)},
		},
		ValenceCuts: domain.ValenceCuts{
			Positive: r.float(KeyPositiveCut),
			Negative: r.float(KeyNegativeCut),
		},
		AnalyticsMaxEvents: r.integer(KeyAnalyticsMaxEvents),
		MetricsCapacity:    r.integer(KeyMetricsCapacity),
		LogLevel:           strings.ToLower(r.str(KeyLogLevel)),
	}

	if err := r.err(); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func (s Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("%w: %s out of range: %d", domain.ErrConfig, KeyAppPort, s.Port)
	}
	if s.Stress.MediumThreshold > s.Stress.HighThreshold {
		return fmt.Errorf("%w: %s must not exceed %s", domain.ErrConfig, KeyStressMedium, KeyStressHigh)
	}

	axes := []struct {
		name   string
		limits domain.AxisThresholds
	}{
		{name: "MBTI_IE", limits: s.Personality.IE},
		{name: "MBTI_TF", limits: s.Personality.TF},
		{name: "MBTI_SN", limits: s.Personality.SN},
		{name: "MBTI_JP", limits: s.Personality.JP},
	}
	for _, axis := range axes {
		if axis.limits.Low > axis.limits.High {
			return fmt.Errorf("%w: %s low threshold exceeds high threshold", domain.ErrConfig, axis.name)
		}
	}
	if s.PersonalityMode == domain.PersonalityExternal && s.PersonalityURL == "" {
		return fmt.Errorf("%w: %s=external requires %s", domain.ErrConfig, KeyPersonalityMode, KeyPersonalityURL)
	}
	if s.MetricsCapacity < 2 {
		return fmt.Errorf("%w: %s must be at least 2", domain.ErrConfig, KeyMetricsCapacity)
	}

	return nil
}

type settingReader struct {
	cfg      ports.KeyValueConfig
	defaults map[string]string
	errs     []error
}

func (r *settingReader) str(key string) string {
	if r.cfg != nil && r.cfg.IsSet(key) {
		return strings.TrimSpace(r.cfg.GetString(key))
	}
	return r.defaults[key]
}

func (r *settingReader) float(key string) float64 {
	if v, err := strconv.ParseFloat(r.str(key), 64); err == nil {
		return v
	}
	v, _ := strconv.ParseFloat(r.defaults[key], 64)
	return v
}

func (r *settingReader) integer(key string) int {
	if v, err := strconv.Atoi(r.str(key)); err == nil {
		return v
	}
	v, _ := strconv.Atoi(r.defaults[key])
	return v
}

func (r *settingReader) boolean(key string) bool {
	switch strings.ToLower(r.str(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	v, _ := strconv.ParseBool(r.defaults[key])
	return v
}

func (r *settingReader) seconds(key string) time.Duration {
	v := r.float(key)
	if v < 0 {
		r.errs = append(r.errs, fmt.Errorf("%w: %s must not be negative", domain.ErrConfig, key))
		return 0
	}
	return time.Duration(v * float64(time.Second))
}

func (r *settingReader) err() error {
	return errors.Join(r.errs...)
}
