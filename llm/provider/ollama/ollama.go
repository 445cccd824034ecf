// Package ollama implements the provider adapter for a local or remote
// Ollama server using its /api/chat endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyforge/studyforge/llm"
)

const ProviderName = "ollama"

type Provider struct {
	baseURL      string
	defaultModel string
	client       *http.Client
	logger       zerolog.Logger
}

func New(baseURL, defaultModel string, timeout time.Duration, logger zerolog.Logger) *Provider {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Provider{
		baseURL:      baseURL,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: timeout},
		logger:       logger.With().Str("provider", ProviderName).Logger(),
	}
}

func (p *Provider) Name() string {
	return ProviderName
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

// ExecuteTask sends one chat request and normalizes the reply. Transport
// and decode failures come back as error responses, never as Go errors.
func (p *Provider) ExecuteTask(ctx context.Context, req *llm.ProviderRequest) *llm.ProviderResponse {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	var messages []chatMessage
	if req.SystemMessage != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemMessage})
	}
	user := chatMessage{Role: "user", Content: req.Prompt}
	if req.Multimodal && len(req.ImageData) > 0 {
		user.Images = []string{base64.StdEncoding.EncodeToString(req.ImageData)}
	}
	messages = append(messages, user)

	body := chatRequest{Model: model, Messages: messages, Stream: false}
	if req.Temperature != nil {
		body.Options = map[string]any{"temperature": *req.Temperature}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return llm.ErrorResponse(fmt.Sprintf("ollama: encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return llm.ErrorResponse(fmt.Sprintf("ollama: build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn().Err(err).Msg("chat request failed")
		return llm.ErrorResponse(fmt.Sprintf("ollama: request failed: %v", err))
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return llm.ErrorResponse(fmt.Sprintf("ollama: decode response: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error
		if msg == "" {
			msg = resp.Status
		}
		return llm.ErrorResponse(fmt.Sprintf("ollama: %s", msg))
	}
	if parsed.Message.Content == "" {
		return llm.ErrorResponse("ollama: empty or invalid response")
	}
	return &llm.ProviderResponse{Content: parsed.Message.Content}
}
