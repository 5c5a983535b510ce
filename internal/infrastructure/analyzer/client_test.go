package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, logger.NewTestLogger(t)), server
}

func TestAnalyze(t *testing.T) {
	t.Run("decodes a successful response", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/analyze", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req analyzeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "text", req.SearchMethod)
			assert.Equal(t, "matte black pendant light", req.TextDescription)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"success": true,
				"features": {
					"brand": "Globe Electric",
					"product_type": "pendant light",
					"key_features": ["dimmable"],
					"specifications": {"Finish": "matte"}
				},
				"confidence_score": 0.92,
				"processing_time": 1.4
			}`))
		})

		result, err := client.Analyze(context.Background(), domain.SearchInput{
			Method:          domain.MethodText,
			TextDescription: "matte black pendant light",
		})

		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.Features)
		assert.Equal(t, "Globe Electric", result.Features.Brand)
		assert.Equal(t, []string{"dimmable"}, result.Features.KeyFeatures)
		assert.InDelta(t, 0.92, result.ConfidenceScore, 0.001)
	})

	t.Run("passes through an unsuccessful envelope", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": false, "error_message": "model overloaded"}`))
		})

		result, err := client.Analyze(context.Background(), domain.SearchInput{
			Method:          domain.MethodText,
			TextDescription: "desk lamp",
		})

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "model overloaded", result.ErrorMessage)
	})

	t.Run("non-200 status is a service failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := client.Analyze(context.Background(), domain.SearchInput{
			Method:          domain.MethodText,
			TextDescription: "desk lamp",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrServiceFailure)
	})

	t.Run("schema violation is a service failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			// success has the wrong type and the required field is absent in meaning
			w.Write([]byte(`{"success": "yes"}`))
		})

		_, err := client.Analyze(context.Background(), domain.SearchInput{
			Method:          domain.MethodText,
			TextDescription: "desk lamp",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrServiceFailure)
	})

	t.Run("unreachable service is a network error", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.Analyze(context.Background(), domain.SearchInput{
			Method:          domain.MethodText,
			TextDescription: "desk lamp",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}
