package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sentra-emo/internal/version"
)

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestUnknownCommandFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "usage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"usage\"")
}

func TestAnalyzeJSONThenUserCommands(t *testing.T) {
	store := t.TempDir()
	setLocalBackend(t, newInferenceServer(t))

	stdout, _, err := executeCLI(t, store, "analyze", "--json", "--user", "u-1", "--username", "Ana", "I", "love", "this")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result), stdout)
	assert.Equal(t, "positive", result["sentiment"].(map[string]any)["label"])
	assert.Equal(t, "joy", result["emotions"].([]any)[0].(map[string]any)["label"])
	assert.Equal(t, "u-1", result["user"].(map[string]any)["userid"])
	assert.FileExists(t, filepath.Join(store, "users", "u-1.toml"))

	stdout, _, err = executeCLI(t, store, "user", "show", "u-1", "--json")
	require.NoError(t, err)
	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &shown), stdout)
	assert.EqualValues(t, 1, shown["events"])
	assert.Equal(t, "Ana", shown["user"].(map[string]any)["username"])
	assert.EqualValues(t, 1, shown["analytics"].(map[string]any)["count"])

	stdout, _, err = executeCLI(t, store, "user", "events", "u-1", "--json")
	require.NoError(t, err)
	var events []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &events), stdout)
	require.Len(t, events, 1)
	assert.Equal(t, "I love this", events[0]["text_excerpt"])

	stdout, _, err = executeCLI(t, store, "user", "export", "u-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 1 events to ")
	assert.FileExists(t, filepath.Join(store, "exports", "u-1.parquet"))
}

func TestAnalyzeRendersCard(t *testing.T) {
	setLocalBackend(t, newInferenceServer(t))

	stdout, _, err := executeCLI(t, t.TempDir(), "analyze", "--no-spinner", "great day")
	require.NoError(t, err)
	assert.Contains(t, stdout, "sentiment: positive")
	assert.Contains(t, stdout, "joy")
}

func TestAnalyzeReadsStdin(t *testing.T) {
	setLocalBackend(t, newInferenceServer(t))

	root := newTestRoot(t, t.TempDir())
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetIn(strings.NewReader("from stdin\n"))
	root.SetArgs([]string{"analyze", "--json"})

	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "\"sentiment\"")
}

func TestAnalyzeEmptyTextIsRejected(t *testing.T) {
	setLocalBackend(t, newInferenceServer(t))

	root := newTestRoot(t, t.TempDir())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader("   "))
	root.SetArgs([]string{"analyze", "--json"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text is required")
}

func TestAnalyzeWithoutLocalEndpointFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "analyze", "--json", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestUserShowUnknownUser(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "user", "show", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestUserEventsRejectsBadTime(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "user", "events", "u-1", "--start", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
}

func TestModelsJSONReportsEmbeddedTables(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "models", "--json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &report), stdout)
	assert.Equal(t, "local", report["backend"])
	assert.Equal(t, "embedded:default", report["vad_source"])
	assert.EqualValues(t, 28, report["vad_labels"])
}

func TestModelsOnlineListsMaskedTokens(t *testing.T) {
	t.Setenv("EMO_BACKEND", "online")
	t.Setenv("EMO_ONLINE_PROVIDER", "nlpcloud")
	t.Setenv("EMO_ONLINE_SENTIMENT_MODEL", "distilbert-base-uncased-emotion")
	t.Setenv("EMO_ONLINE_TOKENS", "tok-aaaaaaaa,tok-bbbbbbbb")

	stdout, _, err := executeCLI(t, t.TempDir(), "models")
	require.NoError(t, err)
	assert.Contains(t, stdout, "backend: online")
	assert.Contains(t, stdout, "provider: nlpcloud")
	assert.Contains(t, stdout, "token 0: ")
	assert.Contains(t, stdout, "token 1: ")
	assert.NotContains(t, stdout, "tok-aaaaaaaa")
}

func TestTokenPutAndRemoveUsesFileFallback(t *testing.T) {
	store := t.TempDir()
	// An empty PATH makes the pass backend unavailable.
	t.Setenv("PATH", t.TempDir())

	stdout, _, err := executeCLI(t, store, "token", "put", "primary", "--value", "  nlp-secret  ")
	require.NoError(t, err)
	assert.Contains(t, stdout, "reference it as secret:primary")

	data, err := os.ReadFile(filepath.Join(store, "secrets", "primary"))
	require.NoError(t, err)
	assert.Equal(t, "nlp-secret\n", string(data))

	_, _, err = executeCLI(t, store, "token", "rm", "primary")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(store, "secrets", "primary"))
}

func TestInvalidSettingsFailBeforeRunning(t *testing.T) {
	t.Setenv("STRESS_MEDIUM_THRESHOLD", "0.9")
	t.Setenv("STRESS_HIGH_THRESHOLD", "0.5")

	_, _, err := executeCLI(t, t.TempDir(), "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRESS_MEDIUM_THRESHOLD")
}

func executeCLI(t *testing.T, store string, args ...string) (string, string, error) {
	t.Helper()

	root := newTestRoot(t, store)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func newTestRoot(t *testing.T, store string) *cobra.Command {
	t.Helper()
	t.Setenv("USER_STORE_DIR", store)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SENTRA_CONFIG", "")

	root := newRootCmd()
	require.NoError(t, root.PersistentFlags().Set("env-file", filepath.Join(store, "missing.env")))
	return root
}

func setLocalBackend(t *testing.T, server *httptest.Server) {
	t.Helper()
	t.Setenv("LOCAL_SENTIMENT_URL", server.URL+"/sentiment")
	t.Setenv("LOCAL_EMOTION_URL", server.URL+"/emotion")
}

func newInferenceServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/sentiment":
			_, _ = w.Write([]byte(`[[{"label":"positive","score":0.93},{"label":"negative","score":0.07}]]`))
		case "/emotion":
			_, _ = w.Write([]byte(`[[{"label":"joy","score":0.81},{"label":"neutral","score":0.12},{"label":"admiration","score":0.07}]]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}
