// Package aicore provides a chat-completion client for SAP AI Core
// inference deployments, with client-credentials token caching, explicit
// retry with exponential backoff, and a quality gate for degenerate
// model responses.
package aicore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Message is a single chat message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenLease is a cached access token with its validity window. Leases are
// replaced, never mutated in place.
type TokenLease struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

const (
	// leaseSkew is how long before expiry a lease stops being reusable.
	leaseSkew = 30 * time.Second
	// defaultExpiresIn applies when the provider omits expires_in.
	defaultExpiresIn = 600 * time.Second
)

// Client issues chat-completion calls against a configured AI Core
// deployment. The token lease is shared across concurrent callers and
// guarded by a mutex so that only one exchange happens per expiry window.
type Client struct {
	cfg    *Config
	http   *http.Client
	policy RetryPolicy
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	lease *TokenLease
}

// New creates a Client from finalized configuration.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout()},
		policy: DefaultRetryPolicy(),
		logger: logger.With("system", "aicore"),
		now:    time.Now,
	}
}

// WithRetryPolicy overrides the default retry policy and returns the client.
func (c *Client) WithRetryPolicy(policy RetryPolicy) *Client {
	c.policy = policy
	return c
}

type tokenResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   float64 `json:"expires_in"`
}

type completionRequest struct {
	DeploymentID string    `json:"deployment_id"`
	Messages     []Message `json:"messages"`
	Temperature  float64   `json:"temperature"`
	MaxTokens    int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues a chat-completion call and returns the first choice's
// message content. Each attempt performs its own token acquisition so an
// expired lease is refreshed between retries. Auth, transport, and protocol
// failures are retried per the client's policy, then the final error is
// surfaced unchanged.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	var content string

	err := c.policy.Do(func() error {
		var attemptErr error
		content, attemptErr = c.complete(ctx, messages, temperature, maxTokens)
		return attemptErr
	}, Retryable)

	return content, err
}

func (c *Client) complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(completionRequest{
		DeploymentID: c.cfg.DeploymentID,
		Messages:     messages,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ChatURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("AI-Resource-Group", c.cfg.ResourceGroup)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ProtocolError{Reason: fmt.Sprintf("invalid response body: %v", err)}
	}

	if len(parsed.Choices) == 0 {
		return "", &ProtocolError{Reason: "no choices returned"}
	}

	content := parsed.Choices[0].Message.Content
	if content == "" {
		return "", &ProtocolError{Reason: "empty response content"}
	}

	return content, nil
}

// ensureToken returns a valid access token, reusing the current lease when
// it has more than 30 seconds of validity remaining, and performing a
// client-credentials exchange otherwise. A failed exchange leaves any prior
// lease untouched.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.lease != nil && now.Before(c.lease.ExpiresAt.Add(-leaseSkew)) {
		return c.lease.Token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if c.cfg.Scope != "" {
		form.Set("scope", c.cfg.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &AuthError{Status: resp.StatusCode, Body: fmt.Sprintf("invalid token response: %v", err)}
	}

	if parsed.AccessToken == "" {
		return "", &AuthError{Status: resp.StatusCode, Body: "no access token in response"}
	}

	expiresIn := defaultExpiresIn
	if parsed.ExpiresIn > 0 {
		expiresIn = time.Duration(parsed.ExpiresIn * float64(time.Second))
	}

	c.lease = &TokenLease{
		Token:     parsed.AccessToken,
		IssuedAt:  now,
		ExpiresAt: now.Add(expiresIn),
	}

	c.logger.Debug("token lease installed", "expires_at", c.lease.ExpiresAt)
	return c.lease.Token, nil
}
