package config

import (
	"github.com/accordlabs/accord/internal/analysis"
	"github.com/accordlabs/accord/internal/ingest"
	"github.com/accordlabs/accord/pkg/aicore"
)

var aicoreEnv = &aicore.Env{
	ClientID:            "ACCORD_AICORE_CLIENT_ID",
	ClientSecret:        "ACCORD_AICORE_CLIENT_SECRET",
	AuthURL:             "ACCORD_AICORE_AUTH_URL",
	APIBase:             "ACCORD_AICORE_API_BASE",
	DeploymentID:        "ACCORD_AICORE_DEPLOYMENT_ID",
	ResourceGroup:       "ACCORD_AICORE_RESOURCE_GROUP",
	Scope:               "ACCORD_AICORE_SCOPE",
	ChatCompletionsPath: "ACCORD_AICORE_CHAT_COMPLETIONS_PATH",
	RequestTimeout:      "ACCORD_AICORE_REQUEST_TIMEOUT",
}

var ingestEnv = &ingest.Env{
	ExtractorCommand: "ACCORD_INGEST_EXTRACTOR_COMMAND",
	MaxUploadSize:    "ACCORD_INGEST_MAX_UPLOAD_SIZE",
}

var analysisEnv = &analysis.Env{
	Temperature:    "ACCORD_ANALYSIS_TEMPERATURE",
	MaxTokens:      "ACCORD_ANALYSIS_MAX_TOKENS",
	TallyMaxTokens: "ACCORD_ANALYSIS_TALLY_MAX_TOKENS",
}
