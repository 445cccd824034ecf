// Package groq implements the provider adapter for Groq's OpenAI-style
// chat completions API.
package groq

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

const ProviderName = "groq"

type Provider struct {
	baseURL      string
	apiKey       string
	defaultModel string
	client       *http.Client
	logger       zerolog.Logger
}

func New(baseURL, apiKey, defaultModel string, timeout time.Duration, logger zerolog.Logger) *Provider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		baseURL:      baseURL,
		apiKey:       apiKey,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: timeout},
		logger:       logger.With().Str("provider", ProviderName).Logger(),
	}
}

func (p *Provider) Name() string {
	return ProviderName
}

type message struct {
	Role string `json:"role"`
	// Content is a plain string for text-only turns and a part array for
	// multimodal ones, matching the chat completions schema.
	Content any `json:"content"`
}

type textPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imagePart struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) ExecuteTask(ctx context.Context, req *llm.ProviderRequest) *llm.ProviderResponse {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	var messages []message
	if req.SystemMessage != "" {
		messages = append(messages, message{Role: "system", Content: req.SystemMessage})
	}
	if req.Multimodal && len(req.ImageData) > 0 {
		dataURI := fmt.Sprintf("data:%s;base64,%s", req.ImageMIMEType, base64.StdEncoding.EncodeToString(req.ImageData))
		messages = append(messages, message{Role: "user", Content: []any{
			textPart{Type: "text", Text: req.Prompt},
			imagePart{Type: "image_url", ImageURL: imageURL{URL: dataURI}},
		}})
	} else {
		messages = append(messages, message{Role: "user", Content: req.Prompt})
	}

	payload, err := json.Marshal(completionRequest{Model: model, Messages: messages, Temperature: req.Temperature})
	if err != nil {
		return llm.ErrorResponse(fmt.Sprintf("groq: encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return llm.ErrorResponse(fmt.Sprintf("groq: build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn().Err(err).Msg("chat completions request failed")
		return llm.ErrorResponse(fmt.Sprintf("groq: request failed: %v", err))
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return llm.ErrorResponse(fmt.Sprintf("groq: decode response: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return llm.ErrorResponse(fmt.Sprintf("groq: %s", msg))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return llm.ErrorResponse("groq: empty or invalid response")
	}
	return &llm.ProviderResponse{Content: parsed.Choices[0].Message.Content}
}
