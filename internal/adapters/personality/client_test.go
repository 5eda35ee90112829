package personality

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sentra-emo/internal/domain"
)

func TestClientClassify(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var summary domain.AnalyticsSummary
		require.NoError(t, json.NewDecoder(r.Body).Decode(&summary))
		assert.Equal(t, "alice", summary.UserID)
		_, _ = w.Write([]byte(`{"type":"infp"}`))
	}))
	t.Cleanup(server.Close)

	result, err := Client{URL: server.URL}.Classify(context.Background(), domain.AnalyticsSummary{UserID: "alice", Count: 12})
	require.NoError(t, err)
	assert.Equal(t, domain.PersonalityResult{Type: "INFP", Method: domain.PersonalityExternal, Samples: 12}, result)
}

func TestClientRejectsBadResponses(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		status int
		body   string
	}{
		"invalid type": {status: http.StatusOK, body: `{"type":"ABCD"}`},
		"short type":   {status: http.StatusOK, body: `{"type":"IN"}`},
		"server error": {status: http.StatusBadGateway, body: `{}`},
		"not json":     {status: http.StatusOK, body: `<html>`},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			_, err := Client{URL: server.URL}.Classify(context.Background(), domain.AnalyticsSummary{})
			assert.Error(t, err)
		})
	}

	_, err := Client{}.Classify(context.Background(), domain.AnalyticsSummary{})
	assert.ErrorIs(t, err, domain.ErrConfig)
}
