package config

import "time"

// Defaults returns a Config populated with every default value: retry/
// revision bounds, the 5-minute phase timeout, and the quality thresholds a
// fresh install runs with before any wikiforge.toml is written.
func Defaults() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model: "claude-sonnet-4-5",
			MaxTokens: 4096,
			Temperature: TemperaturesConfig{
				Research: 0.3,
				Writer: 0.7,
				FactChecker: 0.2,
				Editor: 0.4,
				Critic: 0.3,
			},
		},
		Pipeline: PipelineConfig{
			MaxRevisionCycles: 3,
			PhaseTimeout: Duration{5 * time.Minute},
			Approval: ApprovalConfig{
				AfterResearch: false,
				AfterDraft: false,
				AfterFactcheck: false,
				BeforePublish: true,
			},
		},
		Output: OutputConfig{
			Directory: "output",
			FileExtension: ".txt",
		},
		Quality: QualityConfig{
			MinFactcheckConfidence: "MEDIUM",
			MinEditorScore: 0.7,
		},
		Search: SearchConfig{
			Enabled: false,
			MaxResults: 5,
			DefaultProvider: "",
		},
	}
}
