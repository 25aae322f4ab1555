package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/wikiforge/wikiforge/internal/agent"
	"github.com/wikiforge/wikiforge/internal/approval"
	"github.com/wikiforge/wikiforge/internal/config"
	"github.com/wikiforge/wikiforge/internal/document"
	"github.com/wikiforge/wikiforge/internal/gap"
	"github.com/wikiforge/wikiforge/internal/logging"
	"github.com/wikiforge/wikiforge/internal/output"
	"github.com/wikiforge/wikiforge/internal/pipeline"
	"github.com/wikiforge/wikiforge/internal/repository"
	"github.com/wikiforge/wikiforge/internal/search"
	"github.com/wikiforge/wikiforge/internal/stub"
)

// searchProviderAdapter narrows internal/search's Provider down to the
// agent.SearchProvider capability the Researcher needs, translating
// search.Result into agent.SearchSnippet so internal/agent never has to
// import internal/search.
type searchProviderAdapter struct {
	provider search.Provider
}

func (a searchProviderAdapter) Search(ctx context.Context, query string) ([]agent.SearchSnippet, error) {
	results, err := a.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	snippets := make([]agent.SearchSnippet, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, agent.SearchSnippet{Title: r.Title, Snippet: r.Snippet})
	}
	return snippets, nil
}

// buildSearchRegistry wires the Wikipedia and Wikidata adapters into a
// registry honoring the [search] config section. buildOrchestrator calls it
// only when search is enabled; with search disabled Researcher.Search is left
// nil and the Researcher runs without search results.
func buildSearchRegistry(cfg *config.Config) *search.Registry {
	providers := map[string]search.Provider{
		"wikipedia": search.NewWikipediaProvider("en", cfg.Search.Enabled),
		"wikidata": search.NewWikidataProvider("en", cfg.Search.Enabled),
	}
	return search.NewRegistry(providers, cfg.Search.DefaultProvider)
}

// loadConfig resolves the configuration for the current command, honoring
// an explicit --config path and falling back to a search from the working
// directory.
func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cli: resolving working directory: %w", err)
	}
	cfg, err := config.Load(flagConfig, wd)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildOrchestrator wires every component the composition root
// needs: the five phase agents sharing one agent.Runtime, the approval
// service built from the config's phase mask, the output writer, and a
// file-backed document repository for resumable checkpoints.
func buildOrchestrator(cfg *config.Config) (*pipeline.Orchestrator, *output.Writer, error) {
	logger := logging.New("pipeline")

	chat := agent.NewAnthropicChat("")
	runtime := agent.NewRuntime(chat, logging.New("agent"))

	writer, err := output.New(cfg.Output.Directory, cfg.Output.FileExtension)
	if err != nil {
		return nil, nil, err
	}

	existingPages := func() []string {
		pages, err := output.DiscoverExistingPages(cfg.Output.Directory)
		if err != nil {
			return nil
		}
		return pages
	}

	repo, err := repository.NewFileDocumentRepository(documentStateDir(cfg))
	if err != nil {
		return nil, nil, err
	}

	mask := approval.Mask{
		approval.PhaseAfterResearch: cfg.Pipeline.Approval.AfterResearch,
		approval.PhaseAfterDraft: cfg.Pipeline.Approval.AfterDraft,
		approval.PhaseAfterFactcheck: cfg.Pipeline.Approval.AfterFactcheck,
		approval.PhaseBeforePublish: cfg.Pipeline.Approval.BeforePublish,
	}
	approvalSvc := approval.NewService(approval.AutoApprove{}, mask)

	var searchCapability agent.SearchProvider
	if cfg.Search.Enabled {
		searchCapability = searchProviderAdapter{provider: buildSearchRegistry(cfg).Resolve()}
	}

	orch := &pipeline.Orchestrator{
		Researcher: &agent.Researcher{
			Runtime: runtime,
			Config: modelConfig(cfg, cfg.Anthropic.Temperature.Research),
			Search: searchCapability,
		},
		Writer: &agent.Writer{
			Runtime: runtime,
			Config: modelConfig(cfg, cfg.Anthropic.Temperature.Writer),
			ExistingPages: existingPages,
		},
		FactChecker: &agent.FactChecker{Runtime: runtime, Config: modelConfig(cfg, cfg.Anthropic.Temperature.FactChecker)},
		Editor: &agent.Editor{
			Runtime: runtime,
			Config: modelConfig(cfg, cfg.Anthropic.Temperature.Editor),
			ExistingPages: existingPages,
			MinEditorScore: cfg.Quality.MinEditorScore,
		},
		Critic: &agent.Critic{Runtime: runtime, Config: modelConfig(cfg, cfg.Anthropic.Temperature.Critic)},

		Approval: approvalSvc,
		Output: writer,

		Repository: repo,
		Monitor: pipeline.NewMonitor(nil),

		MaxRevisionCycles: cfg.Pipeline.MaxRevisionCycles,
		PhaseTimeout: cfg.Pipeline.PhaseTimeout.Duration,
		MinFactcheckConfidence: document.Confidence(cfg.Quality.MinFactcheckConfidence),

		Logger: logger,
	}
	return orch, writer, nil
}

func modelConfig(cfg *config.Config, temperature float64) agent.ModelConfig {
	return agent.ModelConfig{
		Model: cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		Temperature: temperature,
	}
}

// documentStateDir is where the file-backed document repository checkpoints
// in-flight runs, kept alongside the configured output directory.
func documentStateDir(cfg *config.Config) string {
	return cfg.Output.Directory + "/.state"
}

// buildGapService wires the fuzzy-aware gap detection service with an LM
// classifier sharing the same chat capability as the phase agents.
func buildGapService(cfg *config.Config) *gap.Service {
	chat := agent.NewAnthropicChat("")
	classifier := gap.NewClassifier(chat, cfg.Anthropic.Model)
	return gap.NewService(classifier)
}

// buildStubGenerator wires the stub generator with the same
// default model as the other phase agents' definition-stub fallback path.
func buildStubGenerator(cfg *config.Config) *stub.Generator {
	chat := agent.NewAnthropicChat("")
	return stub.NewGenerator(chat, cfg.Anthropic.Model, cfg.Anthropic.Temperature.Writer)
}
