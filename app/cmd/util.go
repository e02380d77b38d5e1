package cmd

import (
	"context"
	"fmt"

	"github.com/lexcodex/agentforge/catalog"
	"github.com/lexcodex/agentforge/llm"
	"github.com/lexcodex/agentforge/trace"
)

// newTracer builds the run tracer from the loaded config.
func newTracer() *trace.Tracer {
	return trace.New(globalCfg.Debug)
}

// newBuilder constructs the configured model client.
func newBuilder(ctx context.Context) (llm.Builder, error) {
	switch globalCfg.Builder.Provider {
	case "", "ollama":
		client := llm.NewOllamaClient(globalCfg.Builder.Endpoint, globalCfg.Builder.Model)
		if globalCfg.Builder.Temperature > 0 {
			client.Temperature = globalCfg.Builder.Temperature
		}
		return client, nil
	case "gemini":
		return llm.NewGeminiClient(ctx, globalCfg.Builder.Model)
	default:
		return nil, fmt.Errorf("unknown builder provider %q", globalCfg.Builder.Provider)
	}
}

// newCatalog loads the tool index named by the config.
func newCatalog(tracer *trace.Tracer) *catalog.Catalog {
	return catalog.Load(globalCfg.CatalogPath, tracer)
}
