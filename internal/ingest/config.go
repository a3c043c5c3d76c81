package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/accordlabs/accord/pkg/formatting"
)

// Config holds document ingestion settings.
type Config struct {
	// ExtractorCommand is the external PDF extraction command. The token
	// {path} is replaced with the uploaded file path. Empty disables PDF
	// ingestion in favor of pre-extracted payloads.
	ExtractorCommand string `toml:"extractor_command"`
	// MaxUploadSize bounds each uploaded file, e.g. "25MB".
	MaxUploadSize string `toml:"max_upload_size"`

	extractorArgv  []string
	maxUploadBytes int64
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ExtractorCommand string
	MaxUploadSize    string
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
	if overlay.ExtractorCommand != "" {
		c.ExtractorCommand = overlay.ExtractorCommand
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

// MaxUploadBytes returns the finalized upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

func (c *Config) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ExtractorCommand != "" {
		if v := os.Getenv(env.ExtractorCommand); v != "" {
			c.ExtractorCommand = v
		}
	}
	if env.MaxUploadSize != "" {
		if v := os.Getenv(env.MaxUploadSize); v != "" {
			c.MaxUploadSize = v
		}
	}
}

func (c *Config) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	c.maxUploadBytes = size

	c.extractorArgv = strings.Fields(c.ExtractorCommand)
	return nil
}
