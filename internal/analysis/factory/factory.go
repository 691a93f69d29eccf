// internal/analysis/factory/factory.go
package factory

import (
	"fmt"

	"github.com/khushi-saxena/TradeSage/internal/analysis"
	"github.com/khushi-saxena/TradeSage/internal/analysis/claude"
	"github.com/khushi-saxena/TradeSage/internal/analysis/ollama"
	"github.com/khushi-saxena/TradeSage/internal/analysis/openai"
	"github.com/khushi-saxena/TradeSage/internal/config"
)

// New creates an LLM provider based on configuration.
func New(cfg config.LLMConfig) (analysis.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
