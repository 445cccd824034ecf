// Package githubapi exchanges OAuth codes for access tokens and fetches
// raw file content used to feed source code into the AI analysis agents.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Client struct {
	clientID     string
	clientSecret string
	apiBaseURL   string
	oauthBaseURL string
	httpClient   *http.Client
	logger       zerolog.Logger
}

func NewClient(clientID, clientSecret, apiBaseURL, oauthBaseURL string, logger zerolog.Logger) *Client {
	if apiBaseURL == "" {
		apiBaseURL = "https://api.github.com"
	}
	if oauthBaseURL == "" {
		oauthBaseURL = "https://github.com"
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiBaseURL:   apiBaseURL,
		oauthBaseURL: oauthBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger.With().Str("component", "githubapi").Logger(),
	}
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode trades an OAuth authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"code":          {code},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.oauthBaseURL+"/login/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("github token exchange: %w", err)
	}
	defer resp.Body.Close()

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("github token exchange: decode: %w", err)
	}
	if parsed.AccessToken == "" {
		msg := parsed.ErrorDescription
		if msg == "" {
			msg = parsed.Error
		}
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("github token exchange: %s", msg)
	}
	return parsed.AccessToken, nil
}

// FetchFileContent retrieves a file's raw bytes from a repository using
// the user's stored access token.
func (c *Client) FetchFileContent(ctx context.Context, token, owner, repo, path string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBaseURL,
		url.PathEscape(owner), url.PathEscape(repo), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github fetch %s/%s/%s: %w", owner, repo, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("content fetch failed")
		return nil, fmt.Errorf("github fetch %s/%s/%s: %s", owner, repo, path, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
