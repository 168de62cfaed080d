package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/ai/gemini"
	"github.com/spigell/cv-tailor/internal/secrets"
	"github.com/spigell/cv-tailor/internal/workflow"
)

// newController wires the Gemini-backed generator and analyzer into a workflow controller.
func newController(ctx context.Context, config *Config, logger *zap.Logger) (*workflow.Controller, error) {
	cfg := config.AI.Gemini

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.MaxLogLength, logger)
	if err != nil {
		return nil, err
	}

	listings := gemini.NewListingGenerator(generator, cfg.ListingsModel, logger)
	analyzer := gemini.NewAnalyzer(generator, cfg.AnalysisModel, logger)

	return workflow.New(listings, analyzer, logger, workflow.WithSettleDelay(config.SettleDelay)), nil
}
