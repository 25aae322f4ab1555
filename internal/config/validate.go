package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wikiforge/wikiforge/internal/document"
)

// ValidationSeverity indicates whether a validation issue is an error or
// a warning.
type ValidationSeverity string

const (
	SeverityError ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue is a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field string
	Message string
}

// ValidationResult holds every finding from a Validate call.
type ValidationResult struct {
	Issues []ValidationIssue
}

func (vr *ValidationResult) HasErrors() bool {
	for _, i := range vr.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (vr *ValidationResult) Errors() []ValidationIssue {
	var out []ValidationIssue
	for _, i := range vr.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

func (vr *ValidationResult) Warnings() []ValidationIssue {
	var out []ValidationIssue
	for _, i := range vr.Issues {
		if i.Severity == SeverityWarning {
			out = append(out, i)
		}
	}
	return out
}

var validConfidences = map[string]bool{
	string(document.ConfidenceHigh): true,
	string(document.ConfidenceMedium): true,
	string(document.ConfidenceLow): true,
}

// Validate checks cfg for the range/enum constraints implies
// (temperatures in [0,2], scores in [0,1], positive counts and timeouts) and
// flags unknown TOML keys as warnings via meta.Undecoded. meta may be nil
// when cfg was not produced by a file load.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}
	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	if cfg.Anthropic.Model == "" {
		addError(vr, "anthropic.model", "must not be empty")
	}
	if cfg.Anthropic.MaxTokens <= 0 {
		addError(vr, "anthropic.max-tokens", "must be positive")
	}
	validateTemperature(vr, "anthropic.temperature.research", cfg.Anthropic.Temperature.Research)
	validateTemperature(vr, "anthropic.temperature.writer", cfg.Anthropic.Temperature.Writer)
	validateTemperature(vr, "anthropic.temperature.factchecker", cfg.Anthropic.Temperature.FactChecker)
	validateTemperature(vr, "anthropic.temperature.editor", cfg.Anthropic.Temperature.Editor)
	validateTemperature(vr, "anthropic.temperature.critic", cfg.Anthropic.Temperature.Critic)

	if cfg.Pipeline.MaxRevisionCycles < 0 {
		addError(vr, "pipeline.max-revision-cycles", "must not be negative")
	}
	if cfg.Pipeline.PhaseTimeout.Duration <= 0 {
		addError(vr, "pipeline.phase-timeout", "must be positive")
	}

	if cfg.Output.Directory == "" {
		addError(vr, "output.directory", "must not be empty")
	}
	if cfg.Output.FileExtension == "" {
		addWarning(vr, "output.file-extension", "empty extension; generated filenames will have none")
	}

	if !validConfidences[cfg.Quality.MinFactcheckConfidence] {
		addError(vr, "quality.min-factcheck-confidence",
			fmt.Sprintf("unrecognized value %q; must be one of HIGH, MEDIUM, LOW", cfg.Quality.MinFactcheckConfidence))
	}
	if cfg.Quality.MinEditorScore < 0 || cfg.Quality.MinEditorScore > 1 {
		addError(vr, "quality.min-editor-score", "must be in [0,1]")
	}

	if cfg.Search.Enabled && cfg.Search.MaxResults <= 0 {
		addError(vr, "search.max-results", "must be positive when search.enabled is true")
	}

	validateUnknownKeys(vr, meta)

	return vr
}

func validateTemperature(vr *ValidationResult, field string, val float64) {
	if val < 0 || val > 2 {
		addError(vr, field, "must be in [0,2]")
	}
}

func validateUnknownKeys(vr *ValidationResult, meta *toml.MetaData) {
	if meta == nil {
		return
	}
	for _, key := range meta.Undecoded() {
		addWarning(vr, strings.Join(key, "."), "unknown configuration key")
	}
}

func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{Severity: SeverityError, Field: field, Message: message})
}

func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{Severity: SeverityWarning, Field: field, Message: message})
}
