package paraphrase

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"github.com/tiktoken-go/tokenizer"
)

// Settings configures the OpenAI-backed paraphraser.
type Settings struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxTokens caps the completion when positive. Otherwise no cap is sent
	// unless AutoBudget derives one from the sentence length.
	MaxTokens  int
	AutoBudget bool
}

type OpenAIParaphraser struct {
	client    *openai.Client
	prompt    *PromptConfig
	model     string
	maxTokens int
	codec     tokenizer.Codec
}

var _ Paraphraser = (*OpenAIParaphraser)(nil)

type Option func(cfg *openai.ClientConfig)

func WithHTTPClient(c *http.Client) Option {
	return func(cfg *openai.ClientConfig) {
		cfg.HTTPClient = c
	}
}

func NewOpenAIParaphraser(s Settings, prompt *PromptConfig, options ...Option) (*OpenAIParaphraser, error) {
	if s.APIKey == "" {
		return nil, errors.New("no openai api key")
	}
	if prompt == nil {
		prompt = DefaultPromptConfig()
	}

	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	for _, o := range options {
		o(&cfg)
	}

	model := s.Model
	if model == "" {
		model = prompt.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	ret := &OpenAIParaphraser{
		client:    openai.NewClientWithConfig(cfg),
		prompt:    prompt,
		model:     model,
		maxTokens: s.MaxTokens,
	}

	if s.MaxTokens <= 0 && s.AutoBudget {
		codec, err := codecForModel(model)
		if err != nil {
			return nil, err
		}
		ret.codec = codec
	}

	return ret, nil
}

// Paraphrase sends one streaming chat completion request and returns the
// concatenated, trimmed completion. There is no retry and no timeout beyond
// what ctx imposes.
func (p *OpenAIParaphraser) Paraphrase(ctx context.Context, sentence string) (string, error) {
	content, err := p.prompt.Render(sentence)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: content,
			},
		},
		Stream: true,
	}
	switch {
	case p.maxTokens > 0:
		req.MaxTokens = p.maxTokens
	case p.codec != nil:
		req.MaxTokens = completionBudget(p.codec, sentence)
	}

	log.Debug().
		Str("model", p.model).
		Str("sentence", sentence).
		Int("max_tokens", req.MaxTokens).
		Msg("starting paraphrase stream")

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "could not start completion stream")
	}
	defer stream.Close()

	return Accumulate(chatStream{stream: stream})
}

type chatStream struct {
	stream *openai.ChatCompletionStream
}

func (c chatStream) Recv() (string, error) {
	resp, err := c.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}
