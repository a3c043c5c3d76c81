package analysis

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds model-call parameters for the analysis stages.
type Config struct {
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	TallyMaxTokens int     `toml:"tally_max_tokens"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Temperature    string
	MaxTokens      string
	TallyMaxTokens string
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
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.TallyMaxTokens != 0 {
		c.TallyMaxTokens = overlay.TallyMaxTokens
	}
}

func (c *Config) loadDefaults() {
	if c.Temperature == 0 {
		c.Temperature = 0.15
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1500
	}
	if c.TallyMaxTokens == 0 {
		c.TallyMaxTokens = 200
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Temperature = f
			}
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTokens = n
			}
		}
	}
	if env.TallyMaxTokens != "" {
		if v := os.Getenv(env.TallyMaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.TallyMaxTokens = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.TallyMaxTokens < 1 {
		return fmt.Errorf("tally_max_tokens must be positive")
	}
	return nil
}
