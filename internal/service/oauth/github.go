// Package oauth drives the GitHub login handshake: authorize URL, code to
// access token, token to canonical username. Any provider failure collapses
// to UpstreamFailure and clients only ever see a generic login error.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/codespark/backend/internal/config"
	apperr "github.com/codespark/backend/internal/errors"
)

const defaultAPIBase = "https://api.github.com"

// Client performs the outbound calls to the identity provider. Endpoint and
// API base are injectable so tests can stand up httptest servers.
type Client struct {
	oauth   *oauth2.Config
	apiBase string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       []string{"user"},
			Endpoint:     github.Endpoint,
		},
		apiBase: defaultAPIBase,
	}
}

// NewClientWithEndpoint builds a client against a custom provider, used by
// tests.
func NewClientWithEndpoint(cfg *config.Config, endpoint oauth2.Endpoint, apiBase string) *Client {
	c := NewClient(cfg)
	c.oauth.Endpoint = endpoint
	c.apiBase = apiBase
	return c
}

// LoginURL returns the provider authorize URL the frontend redirects to.
func (c *Client) LoginURL() string {
	return c.oauth.AuthCodeURL("")
}

// ExchangeCode trades the redirect's authorization code for an access
// token. No retries; any failure aborts the login.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", apperr.UpstreamFailure("token exchange: " + err.Error())
	}
	if token.AccessToken == "" {
		return "", apperr.UpstreamFailure("token exchange returned empty token")
	}
	return token.AccessToken, nil
}

// FetchUsername retrieves the provider's canonical username for the token.
func (c *Client) FetchUsername(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/user", nil)
	if err != nil {
		return "", apperr.UpstreamFailure("build user request: " + err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", apperr.UpstreamFailure("fetch user: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.UpstreamFailure(fmt.Sprintf("fetch user: status %d", resp.StatusCode))
	}

	var payload struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperr.UpstreamFailure("decode user response: " + err.Error())
	}
	if payload.Login == "" {
		return "", apperr.UpstreamFailure("user response missing login")
	}
	return payload.Login, nil
}
