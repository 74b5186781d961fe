// Package refiner rewrites review text into a polished variant. The primary
// path delegates to the OpenAI chat completion API; on any failure (missing
// configuration, timeout, malformed response) it falls back to a
// deterministic local transform, so callers always receive a usable result.
package refiner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/sashabaranov/go-openai"
)

const (
	systemPrompt = "You are a helpful assistant that improves book reviews. " +
		"Enhance the grammar, clarity, and tone of the review while preserving " +
		"the original meaning and sentiment. Make it more engaging and professional."

	closingSentence = " Overall, this book provides a compelling narrative that readers will find engaging."

	remoteTimeout = 5 * time.Second
)

// Source identifies which path produced a refinement.
type Source string

const (
	SourceOpenAI   Source = "openai"
	SourceFallback Source = "fallback"
)

// Refinement is the tagged outcome of a Refine call.
type Refinement struct {
	Original string `json:"original_content"`
	Refined  string `json:"refined_content"`
	Source   Source `json:"source"`
}

// Refiner refines review text. The zero value is not usable; use New.
type Refiner struct {
	client *openai.Client
	model  string
	logger *jsonlog.Logger
}

// New creates a Refiner. If apiKey is empty the remote path is disabled and
// every call uses the local fallback. The API key is carried by the client
// configuration here rather than by any process-wide default.
func New(apiKey, model string, httpClient *http.Client, logger *jsonlog.Logger) *Refiner {
	r := &Refiner{model: model, logger: logger}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if httpClient != nil {
			cfg.HTTPClient = httpClient
		}
		r.client = openai.NewClientWithConfig(cfg)
	}
	return r
}

// Refine rewrites content. External failures are absorbed: the result is
// always usable and the Source field records which path produced it.
func (r *Refiner) Refine(ctx context.Context, content string) Refinement {
	if r.client != nil {
		refined, err := r.refineRemote(ctx, content)
		if err == nil {
			return Refinement{Original: content, Refined: refined, Source: SourceOpenAI}
		}
		r.logger.PrintError(err, map[string]string{"component": "refiner"})
	}
	return Refinement{Original: content, Refined: Fallback(content), Source: SourceFallback}
}

func (r *Refiner) refineRemote(ctx context.Context, content string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Please refine this book review: %q", content)},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("refiner: completion returned no choices")
	}
	refined := strings.TrimSpace(resp.Choices[0].Message.Content)
	if refined == "" {
		return "", errors.New("refiner: completion returned empty content")
	}
	return refined, nil
}

// Informal contractions and pronouns corrected by the local fallback.
var contractions = []struct {
	rx   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\bi\b`), "I"},
	{regexp.MustCompile(`\bdont\b`), "don't"},
	{regexp.MustCompile(`\bwont\b`), "won't"},
	{regexp.MustCompile(`\bcant\b`), "can't"},
	{regexp.MustCompile(`\bim\b`), "I'm"},
	{regexp.MustCompile(`\bive\b`), "I've"},
	{regexp.MustCompile(`\bid\b`), "I'd"},
}

// Fallback applies the deterministic local transform: trim, capitalize the
// first letter, fix informal contractions, pad short results with a generic
// closing sentence, and ensure terminal punctuation.
func Fallback(content string) string {
	improved := strings.TrimSpace(content)
	if improved == "" {
		return improved
	}
	first, size := utf8.DecodeRuneInString(improved)
	improved = string(unicode.ToUpper(first)) + improved[size:]
	for _, c := range contractions {
		improved = c.rx.ReplaceAllString(improved, c.repl)
	}
	if len(improved) < 100 {
		improved += closingSentence
	}
	if !strings.HasSuffix(improved, ".") && !strings.HasSuffix(improved, "!") && !strings.HasSuffix(improved, "?") {
		improved += "."
	}
	return improved
}
