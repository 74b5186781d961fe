package refiner

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *jsonlog.Logger {
	return jsonlog.New(io.Discard, jsonlog.LevelFatal)
}

// newRemoteRefiner points a refiner at a stub completion server.
func newRemoteRefiner(t *testing.T, handler http.HandlerFunc) *Refiner {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &Refiner{
		client: openai.NewClientWithConfig(cfg),
		model:  "gpt-3.5-turbo",
		logger: testLogger(),
	}
}

func TestFallback(t *testing.T) {
	longContent := strings.Repeat("a very long review segment ", 5) + "and that is all"
	punctuated := "would you believe how good this was? " + strings.Repeat("it kept me up all night reading. ", 3) + "remarkable!"
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "capitalizes and fixes contractions",
			content: "i liked it but i dont think its for everyone",
			want:    "I liked it but I don't think its for everyone" + closingSentence,
		},
		{
			name:    "trims surrounding whitespace",
			content: "  great book  ",
			want:    "Great book" + closingSentence,
		},
		{
			name:    "appends terminal punctuation to long content",
			content: longContent,
			want:    "A" + longContent[1:] + ".",
		},
		{
			name:    "preserves existing punctuation",
			content: punctuated,
			want:    "W" + punctuated[1:],
		},
		{
			name:    "empty input stays empty",
			content: "   ",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fallback(tt.content))
		})
	}
}

func TestFallbackDeterministic(t *testing.T) {
	content := "i think ive never read anything like it, im impressed"
	first := Fallback(content)
	second := Fallback(content)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "I've")
	assert.Contains(t, first, "I'm")
}

func TestRefineWithoutAPIKey(t *testing.T) {
	r := New("", "gpt-3.5-turbo", nil, testLogger())
	got := r.Refine(context.Background(), "i loved it")
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, "i loved it", got.Original)
	assert.Equal(t, Fallback("i loved it"), got.Refined)
}

func TestRefineRemoteSuccess(t *testing.T) {
	r := newRemoteRefiner(t, func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/v1/chat/completions", req.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "A polished review."}, "finish_reason": "stop"}]
		}`)
	})
	got := r.Refine(context.Background(), "a rough review")
	assert.Equal(t, SourceOpenAI, got.Source)
	assert.Equal(t, "a rough review", got.Original)
	assert.Equal(t, "A polished review.", got.Refined)
}

func TestRefineRemoteFailureFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"id": "chatcmpl-test", "object": "chat.completion", "choices": []}`)
			},
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{
					"id": "chatcmpl-test",
					"object": "chat.completion",
					"choices": [{"index": 0, "message": {"role": "assistant", "content": "   "}, "finish_reason": "stop"}]
				}`)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRemoteRefiner(t, tt.handler)
			got := r.Refine(context.Background(), "i dont know what to say")
			assert.Equal(t, SourceFallback, got.Source)
			assert.Equal(t, Fallback("i dont know what to say"), got.Refined)
		})
	}
}
