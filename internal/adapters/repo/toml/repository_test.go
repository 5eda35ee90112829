package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sentra-emo/internal/domain"
)

func newTestRepository(t *testing.T, storeDir string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("USER_STORE_DIR", storeDir)
	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func sampleState(userID string) domain.UserState {
	return domain.UserState{
		UserID:        userID,
		Username:      "Alice",
		FastEMA:       domain.VAD{Valence: 0.62, Arousal: 0.55, Dominance: 0.51},
		SlowEMA:       domain.VAD{Valence: 0.58, Arousal: 0.5, Dominance: 0.5},
		TopEmotions:   []domain.LabelScore{{Label: "joy", Score: 0.7}, {Label: "fear", Score: 0.3}},
		LastUpdate:    time.Date(2026, 3, 1, 12, 30, 0, 123000000, time.UTC),
		SampleCount:   4,
		LastSentiment: domain.SentimentPositive,
		LastStress:    domain.StressResult{Score: 0.31, Level: domain.StressLow},
		EmotionWeights: map[string]float64{
			"joy":  1.4,
			"fear": 0.6,
		},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, t.TempDir())
	state := sampleState("u-1")

	require.NoError(t, repo.Save(context.Background(), state))

	got, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, state, got)

	state.SampleCount = 5
	require.NoError(t, repo.Save(context.Background(), state))
	got, err = repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.SampleCount)
}

func TestRepositoryMissingUser(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing"))

	_, err := repo.GetByID(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.GetByID(context.Background(), " ")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepositoryEscapesUserIDs(t *testing.T) {
	t.Parallel()

	storeDir := t.TempDir()
	repo := newTestRepository(t, storeDir)

	require.NoError(t, repo.Save(context.Background(), sampleState("../../etc/passwd")))

	entries, err := os.ReadDir(filepath.Join(storeDir, "users"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "..%2F..%2Fetc%2Fpasswd.toml", entries[0].Name())

	got, err := repo.GetByID(context.Background(), "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "../../etc/passwd", got.UserID)
}

func TestRepositorySaveEnforcesPermissionsAndVersion(t *testing.T) {
	t.Parallel()

	storeDir := t.TempDir()
	repo := newTestRepository(t, storeDir)
	require.NoError(t, repo.Save(context.Background(), sampleState("u-1")))

	path := filepath.Join(storeDir, "users", "u-1.toml")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
}

func TestRepositoryDecodeErrors(t *testing.T) {
	t.Parallel()

	storeDir := t.TempDir()
	usersPath := filepath.Join(storeDir, "users")
	require.NoError(t, os.MkdirAll(usersPath, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(usersPath, "broken.toml"), []byte("user = ["), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(usersPath, "future.toml"), []byte(strings.Join([]string{
		"version = 999",
		"",
		"[user]",
		"userid = \"future\"",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, storeDir)

	_, err := repo.GetByID(context.Background(), "broken")
	assert.ErrorContains(t, err, "decode user state file")

	_, err = repo.GetByID(context.Background(), "future")
	assert.ErrorContains(t, err, "unsupported user state schema version")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, sampleState("u-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstances(t *testing.T) {
	t.Parallel()

	storeDir := t.TempDir()
	repoA := newTestRepository(t, storeDir)
	repoB := newTestRepository(t, storeDir)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	write := func(repo *Repository, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repo.Save(context.Background(), sampleState(prefix+strconv.Itoa(i%5)))
		}
	}
	go write(repoA, "a-")
	go write(repoB, "b-")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Join(storeDir, "users"))
	require.NoError(t, err)
	assert.Len(t, entries, 10)

	got, err := repoB.GetByID(context.Background(), "a-3")
	require.NoError(t, err)
	assert.Equal(t, sampleState("a-3"), got)
}
