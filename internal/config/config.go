// Package config loads and validates wikiforge.toml, the publishing
// pipeline's configuration file. Every knob named in is a field
// here, decoded into a plain struct with a separate Validate pass over
// TOML metadata.
package config

// Config is the top-level configuration structure mapping to wikiforge.toml.
type Config struct {
	Anthropic AnthropicConfig `toml:"anthropic"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Output OutputConfig `toml:"output"`
	Quality QualityConfig `toml:"quality"`
	Search SearchConfig `toml:"search"`
}

// AnthropicConfig maps to the [anthropic] section: LM sampling parameters.
// Temperature is per phase agent, matching's
// "anthropic.temperature.{research,writer,factchecker,editor,critic}".
type AnthropicConfig struct {
	Model string `toml:"model"`
	MaxTokens int `toml:"max-tokens"`
	Temperature TemperaturesConfig `toml:"temperature"`
}

// TemperaturesConfig maps to [anthropic.temperature].
type TemperaturesConfig struct {
	Research float64 `toml:"research"`
	Writer float64 `toml:"writer"`
	FactChecker float64 `toml:"factchecker"`
	Editor float64 `toml:"editor"`
	Critic float64 `toml:"critic"`
}

// PipelineConfig maps to the [pipeline] section.
type PipelineConfig struct {
	MaxRevisionCycles int `toml:"max-revision-cycles"`
	PhaseTimeout Duration `toml:"phase-timeout"`
	Approval ApprovalConfig `toml:"approval"`
}

// ApprovalConfig maps to [pipeline.approval]: the per-phase boolean mask
// . Gates for which the mask is false auto-approve
// without consulting the decision capability.
type ApprovalConfig struct {
	AfterResearch bool `toml:"after-research"`
	AfterDraft bool `toml:"after-draft"`
	AfterFactcheck bool `toml:"after-factcheck"`
	BeforePublish bool `toml:"before-publish"`
}

// OutputConfig maps to the [output] section.
type OutputConfig struct {
	Directory string `toml:"directory"`
	FileExtension string `toml:"file-extension"`
}

// QualityConfig maps to the [quality] section.
type QualityConfig struct {
	MinFactcheckConfidence string `toml:"min-factcheck-confidence"`
	MinEditorScore float64 `toml:"min-editor-score"`
}

// SearchConfig maps to the [search] section.
type SearchConfig struct {
	Enabled bool `toml:"enabled"`
	MaxResults int `toml:"max-results"`
	DefaultProvider string `toml:"default-provider"`
}
