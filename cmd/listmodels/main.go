package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/llm"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

// Prints the Gemini models available to GEMINI_API_KEY that can serve
// generateContent, so GEMINI_MODEL can be set to one that exists.
func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("listmodels failed")
		os.Exit(1)
	}
}

var errNoModels = errors.New("no models support generateContent for this key")

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	observability.InitLogger(cfg.App.Name+"-listmodels", cfg.App.Env)

	client, err := llm.NewGeminiClient(&cfg.Gemini, llm.Options{Timeout: cfg.AI.RequestTimeout})
	if err != nil {
		return fmt.Errorf("GEMINI_API_KEY is not set: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	found := 0
	for _, m := range models {
		if !m.SupportsGenerateContent() {
			continue
		}
		found++
		fmt.Fprintf(os.Stdout, "%s\t%s\n", m.Name, m.DisplayName)
	}
	if found == 0 {
		return errNoModels
	}
	return nil
}
