package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	. "jira-docgen/internal/common"
	"jira-docgen/internal/interfaces"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/go-resty/resty/v2"
)

// NewGateway selects the configured completion provider. Ollama is the
// default; Anthropic is available for teams without local GPU capacity.
func NewGateway(config *GatewayConfig) (interfaces.Gateway, error) {
	switch config.Provider {
	case "anthropic":
		if config.AnthropicAPIKey == "" {
			return nil, NewConfigurationError("GATEWAY_KEY", "anthropic provider requires an API key")
		}
		return newAnthropicGateway(config), nil
	default:
		return newOllamaGateway(config), nil
	}
}

// --- Ollama ---

type ollamaGateway struct {
	client *resty.Client
	model  string
}

type ollamaGenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	Stream      bool    `json:"stream"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func newOllamaGateway(config *GatewayConfig) *ollamaGateway {
	client := resty.New().
		SetBaseURL(config.URL).
		SetTimeout(time.Duration(config.Timeout) * time.Second).
		SetHeader("Content-Type", "application/json")

	return &ollamaGateway{
		client: client,
		model:  config.Model,
	}
}

func (g *ollamaGateway) Complete(prompt string, temperature float64) (string, error) {
	var response ollamaGenerateResponse

	resp, err := g.client.R().
		SetBody(ollamaGenerateRequest{
			Model:       g.model,
			Prompt:      prompt,
			Temperature: temperature,
			Stream:      false,
		}).
		SetResult(&response).
		Post("/api/generate")

	if err != nil {
		return "", fmt.Errorf("failed to call model %s: %w", g.model, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("model endpoint returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return response.Response, nil
}

// --- Anthropic ---

type anthropicGateway struct {
	client anthropic.Client
	model  string
}

func newAnthropicGateway(config *GatewayConfig) *anthropicGateway {
	return &anthropicGateway{
		client: anthropic.NewClient(option.WithAPIKey(config.AnthropicAPIKey)),
		model:  config.Model,
	}
}

func (g *anthropicGateway) Complete(prompt string, temperature float64) (string, error) {
	message, err := g.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   4096,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
