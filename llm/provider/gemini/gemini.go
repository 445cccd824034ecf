// Package gemini implements the provider adapter for the Gemini
// generateContent REST API. The API key travels as a query parameter per
// Google's convention.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyforge/studyforge/llm"
)

const ProviderName = "gemini"

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

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) ExecuteTask(ctx context.Context, req *llm.ProviderRequest) *llm.ProviderResponse {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	parts := []part{{Text: req.Prompt}}
	if req.Multimodal && len(req.ImageData) > 0 {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: req.ImageMIMEType,
			Data:     base64.StdEncoding.EncodeToString(req.ImageData),
		}})
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	}
	if req.SystemMessage != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.SystemMessage}}}
	}
	if req.Temperature != nil {
		body.GenerationConfig = &generationConfig{Temperature: req.Temperature}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return llm.ErrorResponse(fmt.Sprintf("gemini: encode request: %v", err))
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, model, url.QueryEscape(p.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.ErrorResponse(fmt.Sprintf("gemini: build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn().Err(err).Msg("generateContent request failed")
		return llm.ErrorResponse(fmt.Sprintf("gemini: request failed: %v", err))
	}
	defer resp.Body.Close()

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return llm.ErrorResponse(fmt.Sprintf("gemini: decode response: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return llm.ErrorResponse(fmt.Sprintf("gemini: %s", msg))
	}
	for _, candidate := range parsed.Candidates {
		for _, pt := range candidate.Content.Parts {
			if pt.Text != "" {
				return &llm.ProviderResponse{Content: pt.Text}
			}
		}
	}
	return llm.ErrorResponse("gemini: empty or invalid response")
}
