package essay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meikuraledutech/flowchart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{Endpoint: srv.URL + "/v1/chat/completions", Model: "test-model", MaxTokens: 42},
		WithGetenv(env(map[string]string{DefaultAPIKeyEnv: "sk-test"})))
}

func TestGenerate_Success(t *testing.T) {
	var got chatRequest
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Once upon a time."}}]}`))
	})

	text, err := c.Generate(context.Background(), flowchart.GenerationRequest{Prompt: "describe"})
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time.", text)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 42, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "describe", got.Messages[0].Content)
}

func TestGenerate_ServerErrorWithMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"The server had an error"}}`))
	})

	_, err := c.Generate(context.Background(), flowchart.GenerationRequest{Prompt: "p"})
	var ge *flowchart.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusInternalServerError, ge.Status)
	assert.Equal(t, "The server had an error", ge.Message)
}

func TestGenerate_ServerErrorWithoutMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.Generate(context.Background(), flowchart.GenerationRequest{Prompt: "p"})
	var ge *flowchart.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusBadGateway, ge.Status)
	assert.Equal(t, flowchart.DefaultGenerationMessage, ge.Message)
}

func TestGenerate_MalformedBodies(t *testing.T) {
	bodies := []string{
		`not json`,
		`{}`,
		`{"choices":[]}`,
		`{"choices":[{}]}`,
		`{"choices":[{"message":{"role":"assistant"}}]}`,
		`{"choices":[{"message":{"role":"assistant","content":""}}]}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := c.Generate(context.Background(), flowchart.GenerationRequest{Prompt: "p"})
			var ge *flowchart.GenerationError
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, http.StatusOK, ge.Status)
			assert.Contains(t, ge.Message, "malformed")
		})
	}
}

func TestGenerate_MissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL}, WithGetenv(env(nil)))
	_, err := c.Generate(context.Background(), flowchart.GenerationRequest{Prompt: "p"})

	var ge *flowchart.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Contains(t, ge.Message, DefaultAPIKeyEnv)
	assert.False(t, called)
}

func TestGenerate_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Config{Endpoint: url}, WithGetenv(env(map[string]string{DefaultAPIKeyEnv: "k"})))
	_, err := c.Generate(context.Background(), flowchart.GenerationRequest{Prompt: "p"})

	var ge *flowchart.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Zero(t, ge.Status)
	assert.Error(t, ge.Err)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultAPIKeyEnv, cfg.APIKeyEnv)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}
