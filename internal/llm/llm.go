// File path: internal/llm/llm.go
package llm

import (
	"errors"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/studybuddy-ai/studybuddy/internal/common"
	"github.com/studybuddy-ai/studybuddy/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// ErrGeneration marks failures of the external generation service. Callers
// treat it as retryable; state is left consistent for a retry.
var ErrGeneration = errors.New("llm: generation service failed")

// NewProvider selects the OpenAI provider when OPENAI_API_KEY is set and
// falls back to the deterministic local provider otherwise.
func NewProvider() Provider {
	logger := common.Logger()
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
			logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", endpoint)
			opts = append(opts, option.WithBaseURL(endpoint))
		}
		client := openai.NewClient(opts...)
		logger.Info("llm: OpenAI provider selected")
		return providers.NewOpenAIProvider(client)
	}
	logger.Warn("llm: OPENAI_API_KEY not set; falling back to local provider")
	return providers.NewLocalProvider()
}
