// Package toml persists user affect state, one TOML file per user.
package toml

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/sentra-emo/internal/domain"
	"github.com/bnema/sentra-emo/internal/ports"
)

const (
	storeDirKey     = "USER_STORE_DIR"
	defaultStoreDir = "data"
	usersDir        = "users"
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	stateFileExt    = ".toml"
	tempFilePattern = ".user-*.toml.tmp"
)

type Repository struct {
	dir string
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.UserStateRepository = (*Repository)(nil)

// NewRepository stores files under <USER_STORE_DIR>/users.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	storeDir := cfg.GetString(storeDirKey)
	if storeDir == "" {
		storeDir = defaultStoreDir
	}

	dir, err := normalizePath(filepath.Join(storeDir, usersDir))
	if err != nil {
		return nil, err
	}

	return &Repository{dir: dir}, nil
}

func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) Save(ctx context.Context, state domain.UserState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateUserID(state.UserID); err != nil {
		return err
	}

	path := r.pathFor(state.UserID)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	file := fileSchema{User: toSchema(state)}
	file.applyDefaults()

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeTOMLFile(path, file)
}

func (r *Repository) GetByID(ctx context.Context, userID string) (domain.UserState, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserState{}, err
	}
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.UserState{}, err
	}

	path := r.pathFor(userID)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.UserState{}, domain.ErrUserNotFound
		}
		return domain.UserState{}, fmt.Errorf("read user state file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.UserState{}, fmt.Errorf("decode user state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.UserState{}, err
	}
	file.applyDefaults()

	state := fromSchema(file.User)
	if state.UserID == "" {
		state.UserID = userID
	}
	return state, nil
}

// pathFor escapes the id so it can never leave the users directory.
func (r *Repository) pathFor(userID string) string {
	return filepath.Join(r.dir, url.PathEscape(userID)+stateFileExt)
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve store path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func writeTOMLFile(path string, file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(path), stateDirMode); err != nil {
		return fmt.Errorf("create user state directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode user state file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp user state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp user state file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp user state file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp user state file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace user state file: %w", err)
	}

	cleanup = false
	return nil
}

func toSchema(state domain.UserState) userSchema {
	top := make([]labelSchema, 0, len(state.TopEmotions))
	for _, ls := range state.TopEmotions {
		top = append(top, labelSchema{Label: ls.Label, Score: ls.Score})
	}

	return userSchema{
		UserID:         state.UserID,
		Username:       state.Username,
		LastUpdate:     formatTime(state.LastUpdate),
		SampleCount:    state.SampleCount,
		LastSentiment:  state.LastSentiment,
		FastEMA:        toVADSchema(state.FastEMA),
		SlowEMA:        toVADSchema(state.SlowEMA),
		LastStress:     stressSchema{Score: state.LastStress.Score, Level: string(state.LastStress.Level)},
		TopEmotions:    top,
		EmotionWeights: state.EmotionWeights,
	}
}

func fromSchema(user userSchema) domain.UserState {
	top := make([]domain.LabelScore, 0, len(user.TopEmotions))
	for _, ls := range user.TopEmotions {
		top = append(top, domain.LabelScore{Label: ls.Label, Score: ls.Score})
	}

	weights := user.EmotionWeights
	if weights == nil {
		weights = map[string]float64{}
	}

	return domain.UserState{
		UserID:         user.UserID,
		Username:       user.Username,
		FastEMA:        fromVADSchema(user.FastEMA),
		SlowEMA:        fromVADSchema(user.SlowEMA),
		TopEmotions:    top,
		EmotionWeights: weights,
		LastUpdate:     parseTime(user.LastUpdate),
		SampleCount:    user.SampleCount,
		LastSentiment:  user.LastSentiment,
		LastStress:     domain.StressResult{Score: user.LastStress.Score, Level: domain.StressLevel(user.LastStress.Level)},
	}
}

func toVADSchema(v domain.VAD) vadSchema {
	return vadSchema{Valence: v.Valence, Arousal: v.Arousal, Dominance: v.Dominance}
}

func fromVADSchema(v vadSchema) domain.VAD {
	return domain.VAD{Valence: v.Valence, Arousal: v.Arousal, Dominance: v.Dominance}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
