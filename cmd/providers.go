package cmd

import (
	"context"
	"fmt"

	"github.com/spigell/ats-matcher/internal/ai"
	"github.com/spigell/ats-matcher/internal/ai/gemini"
	"github.com/spigell/ats-matcher/internal/ai/groq"
	"github.com/spigell/ats-matcher/internal/analysis"
	"github.com/spigell/ats-matcher/internal/document"
	"github.com/spigell/ats-matcher/internal/logger"
	"github.com/spigell/ats-matcher/internal/secrets"

	"go.uber.org/zap"
)

// newAnalysisService builds the provider client once and wires it into the
// analysis service.
func newAnalysisService(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*analysis.Service, error) {
	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("building %s client: %w", cfg.Provider, err)
	}

	aiLogger := logger.WithCommonFields(log, cfg.Provider, generator.Model())
	extractor := ai.NewExtractor(generator, cfg.MaxLogLength, logger.WithComponent(aiLogger, "skills"))
	texts := document.NewExtractor(logger.WithComponent(log, "document"))

	return analysis.NewService(texts, extractor, logger.WithComponent(aiLogger, "analysis")), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Generator, error) {
	switch cfg.Provider {
	case providerGroq:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "groq api key",
			Value: cfg.Groq.APIKey,
			File:  cfg.Groq.APIKeyFile,
			Env:   "GROQ_API_KEY",
		})
		if err != nil {
			return nil, err
		}

		genLogger := logger.WithCommonFields(log, providerGroq, cfg.Groq.Model).
			With(zap.Int("ai_retry_attempts", cfg.MaxRetries))

		return groq.NewGenerator(apiKey, cfg.Groq.BaseURL, cfg.Groq.Model, cfg.MaxRetries, genLogger)
	case providerGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, err
		}

		genLogger := logger.WithCommonFields(log, providerGemini, cfg.Gemini.Model).
			With(zap.Int("ai_retry_attempts", cfg.MaxRetries))

		return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.MaxRetries, genLogger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}
