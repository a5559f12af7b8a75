package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-gate/internal/config"
	"github.com/kozaktomas/face-gate/internal/recognizer"
	"github.com/kozaktomas/face-gate/internal/store"
)

// openStore opens the reference store configured via STORE_DIR.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.New(cfg.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening reference store: %w", err)
	}
	return st, nil
}

// newRecognizerClient builds the DeepFace client used for verification.
// The client is created once per process and shared across requests.
func newRecognizerClient(cfg *config.Config) (*recognizer.DeepFaceClient, error) {
	if cfg.Recognizer.URL == "" {
		return nil, errors.New("RECOGNIZER_URL environment variable is required")
	}
	model := cfg.Recognizer.Model
	return recognizer.NewDeepFaceClient(cfg.Recognizer.URL, model, cfg.ModelThreshold(model)), nil
}

// newAnalyzer picks the attribute-analysis backend. The DeepFace service
// is the default; OpenAI and Gemini vision models are the alternatives
// for deployments where the service lacks attribute support.
func newAnalyzer(ctx context.Context, cfg *config.Config, client *recognizer.DeepFaceClient) (recognizer.Analyzer, error) {
	switch cfg.Recognizer.Analyzer {
	case "", "deepface":
		return client, nil
	case "openai":
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required for the openai analyzer")
		}
		return recognizer.NewOpenAIAnalyzer(cfg.OpenAI.Token), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required for the gemini analyzer")
		}
		return recognizer.NewGeminiAnalyzer(ctx, cfg.Gemini.APIKey)
	default:
		return nil, fmt.Errorf("unknown analyzer backend %q (use deepface, openai, or gemini)", cfg.Recognizer.Analyzer)
	}
}
