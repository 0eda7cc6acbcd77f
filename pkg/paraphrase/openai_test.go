package paraphrase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func chunk(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion.chunk",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{"index": 0, "delta": map[string]string{"content": content}},
		},
	})
	return fmt.Sprintf("data: %s\n\n", b)
}

func newTestParaphraser(t *testing.T, srv *httptest.Server, s Settings) *OpenAIParaphraser {
	t.Helper()
	s.APIKey = "test-key"
	s.BaseURL = srv.URL + "/v1"
	p, err := NewOpenAIParaphraser(s, nil, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return p
}

func TestOpenAIParaphraserStreams(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range []string{" I am", " quite", " displeased. "} {
			_, _ = io.WriteString(w, chunk(c))
		}
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := newTestParaphraser(t, srv, Settings{})
	out, err := p.Paraphrase(context.Background(), "i am mad")
	require.NoError(t, err)
	require.Equal(t, "I am quite displeased.", out)

	require.True(t, got.Stream)
	require.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 1)
	require.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
	require.True(t, strings.Contains(got.Messages[0].Content, `"i am mad"`))
	require.Equal(t, 0, got.MaxTokens)
}

func TestOpenAIParaphraserAutoBudget(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, chunk("I am displeased."))
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := newTestParaphraser(t, srv, Settings{AutoBudget: true})
	_, err := p.Paraphrase(context.Background(), "i am mad")
	require.NoError(t, err)
	require.GreaterOrEqual(t, got.MaxTokens, budgetFloor)
}

func TestOpenAIParaphraserExplicitModelAndCap(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, chunk("Indeed."))
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := newTestParaphraser(t, srv, Settings{Model: "gpt-4o", MaxTokens: 40, AutoBudget: true})
	out, err := p.Paraphrase(context.Background(), "yes")
	require.NoError(t, err)
	require.Equal(t, "Indeed.", out)
	require.Equal(t, "gpt-4o", got.Model)
	require.Equal(t, 40, got.MaxTokens)
}

func TestOpenAIParaphraserHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	p := newTestParaphraser(t, srv, Settings{MaxTokens: 100})
	_, err := p.Paraphrase(context.Background(), "i am mad")
	require.Error(t, err)
}

func TestOpenAIParaphraserMalformedStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, chunk("I am"))
		_, _ = io.WriteString(w, "data: {not json\n\n")
	}))
	defer srv.Close()

	p := newTestParaphraser(t, srv, Settings{MaxTokens: 100})
	_, err := p.Paraphrase(context.Background(), "i am mad")
	require.Error(t, err)
}

func TestNewOpenAIParaphraserRequiresKey(t *testing.T) {
	_, err := NewOpenAIParaphraser(Settings{}, nil)
	require.Error(t, err)
}
