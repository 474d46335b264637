package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remindbridge/internal/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pkg/errors"
)

const systemPrompt = "You are a friendly WhatsApp assistant. Rewrite the reminder you are given " +
	"as one short, warm message addressed to the customer. Keep every date, time and fact unchanged. " +
	"Reply with the message text only."

// ErrClientNotInitialised is returned when no API key was configured.
var ErrClientNotInitialised = errors.New("openai client not initialised")

// Client asks the language model to phrase reminder messages.
type Client struct {
	client *openai.Client
	model  openai.ChatModel
	log    logger.Logger
}

// NewClient returns a client; without an API key every call falls back to the plain text.
func NewClient(apiKey, model string, log logger.Logger) *Client {
	if apiKey == "" {
		log.Warn("OPENAI_API_KEY not set, reminder messages are sent verbatim")
		return &Client{log: log}
	}
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4oMini
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{client: &client, model: chatModel, log: log}
}

// ComposeReminder returns the message to send for a reminder. The plain message
// is returned when the model is unavailable or fails.
func (c *Client) ComposeReminder(ctx context.Context, userName, plain string) string {
	text, err := c.compose(ctx, userName, plain)
	if err != nil {
		if !errors.Is(err, ErrClientNotInitialised) {
			c.log.Warn("assistant compose failed, sending plain reminder", "error", err.Error())
		}
		return plain
	}
	return text
}

func (c *Client) compose(ctx context.Context, userName, plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", errors.New("reminder text cannot be empty")
	}
	if c.client == nil {
		return "", ErrClientNotInitialised
	}

	req := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(fmt.Sprintf("Customer name: %s\nReminder: %s", userName, plain)),
					},
				},
			},
		},
		Temperature:         openai.Float(0.4),
		MaxCompletionTokens: openai.Int(160),
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion received")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion received")
	}
	return text, nil
}
