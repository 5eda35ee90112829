package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bnema/sentra-emo/internal/application"
	"github.com/bnema/sentra-emo/internal/domain"
)

// FileEnvKey names the optional TOML or YAML settings file.
const FileEnvKey = "SENTRA_CONFIG"

type Options struct {
	EnvFile    string
	ConfigFile string
}

// Load builds the viper instance backing ports.KeyValueConfig. Precedence is environment, then
// the settings file, then defaults. A missing .env file is not an error.
func Load(opts Options, logger *zap.Logger) (*viper.Viper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: load %s: %w", domain.ErrConfig, envFile, err)
		}
		logger.Debug("no .env file, using process environment", zap.String("path", envFile))
	}

	v := viper.New()
	for key, value := range application.SettingDefaults() {
		v.SetDefault(key, value)
	}
	for key, aliases := range application.SettingAliases {
		names := append([]string{key, key}, aliases...)
		if err := v.BindEnv(names...); err != nil {
			return nil, fmt.Errorf("%w: bind %s: %w", domain.ErrConfig, key, err)
		}
	}
	v.AutomaticEnv()

	configFile := strings.TrimSpace(opts.ConfigFile)
	if configFile == "" {
		configFile = strings.TrimSpace(os.Getenv(FileEnvKey))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrConfig, configFile, err)
		}
		logger.Info("settings file loaded", zap.String("path", v.ConfigFileUsed()))
	}

	return v, nil
}
