package aicore

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds connection and credential parameters for an AI Core inference
// deployment. AuthURL and APIBase are stored without trailing slashes.
type Config struct {
	ClientID            string `toml:"client_id"`
	ClientSecret        string `toml:"client_secret"`
	AuthURL             string `toml:"auth_url"`
	APIBase             string `toml:"api_base"`
	DeploymentID        string `toml:"deployment_id"`
	ResourceGroup       string `toml:"resource_group"`
	Scope               string `toml:"scope"`
	ChatCompletionsPath string `toml:"chat_completions_path"`
	RequestTimeout      string `toml:"request_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ClientID            string
	ClientSecret        string
	AuthURL             string
	APIBase             string
	DeploymentID        string
	ResourceGroup       string
	Scope               string
	ChatCompletionsPath string
	RequestTimeout      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	set(&c.ClientID, overlay.ClientID)
	set(&c.ClientSecret, overlay.ClientSecret)
	set(&c.AuthURL, overlay.AuthURL)
	set(&c.APIBase, overlay.APIBase)
	set(&c.DeploymentID, overlay.DeploymentID)
	set(&c.ResourceGroup, overlay.ResourceGroup)
	set(&c.Scope, overlay.Scope)
	set(&c.ChatCompletionsPath, overlay.ChatCompletionsPath)
	set(&c.RequestTimeout, overlay.RequestTimeout)
}

// Timeout parses RequestTimeout. Finalize validates the value, so parse
// failures after finalization indicate a programming error and fall back
// to the default.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// TokenURL returns the client-credentials exchange endpoint.
func (c *Config) TokenURL() string {
	return c.AuthURL + "/oauth/token"
}

// ChatURL returns the chat-completion endpoint.
func (c *Config) ChatURL() string {
	return c.APIBase + "/" + strings.TrimPrefix(c.ChatCompletionsPath, "/")
}

func (c *Config) loadDefaults() {
	if c.RequestTimeout == "" {
		c.RequestTimeout = "120s"
	}
	if c.ResourceGroup == "" {
		c.ResourceGroup = "default"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(dst *string, key string) {
		if key != "" {
			if v := os.Getenv(key); v != "" {
				*dst = v
			}
		}
	}

	set(&c.ClientID, env.ClientID)
	set(&c.ClientSecret, env.ClientSecret)
	set(&c.AuthURL, env.AuthURL)
	set(&c.APIBase, env.APIBase)
	set(&c.DeploymentID, env.DeploymentID)
	set(&c.ResourceGroup, env.ResourceGroup)
	set(&c.Scope, env.Scope)
	set(&c.ChatCompletionsPath, env.ChatCompletionsPath)
	set(&c.RequestTimeout, env.RequestTimeout)
}

func (c *Config) validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client_id required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client_secret required")
	}
	if c.AuthURL == "" {
		return fmt.Errorf("auth_url required")
	}
	if c.APIBase == "" {
		return fmt.Errorf("api_base required")
	}
	if c.DeploymentID == "" {
		return fmt.Errorf("deployment_id required")
	}
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}

	c.AuthURL = strings.TrimRight(c.AuthURL, "/")
	c.APIBase = strings.TrimRight(c.APIBase, "/")
	if c.ChatCompletionsPath == "" {
		c.ChatCompletionsPath = fmt.Sprintf("/v2/inference/deployments/%s/chat/completions", c.DeploymentID)
	}

	return nil
}
