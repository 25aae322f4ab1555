package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wikiforge/wikiforge/internal/config"
)

func TestValidate_DefaultsAreClean(t *testing.T) {
	result := config.Validate(config.Defaults(), nil)
	assert.False(t, result.HasErrors())
}

func TestValidate_NilConfig(t *testing.T) {
	result := config.Validate(nil, nil)
	assert.True(t, result.HasErrors())
}

func TestValidate_TemperatureOutOfRange(t *testing.T) {
	cfg := config.Defaults()
	cfg.Anthropic.Temperature.Writer = 3.0
	result := config.Validate(cfg, nil)
	assert.True(t, result.HasErrors())
	assert.Equal(t, "anthropic.temperature.writer", result.Errors()[0].Field)
}

func TestValidate_NegativeRevisionCycles(t *testing.T) {
	cfg := config.Defaults()
	cfg.Pipeline.MaxRevisionCycles = -1
	result := config.Validate(cfg, nil)
	assert.True(t, result.HasErrors())
}

func TestValidate_UnrecognizedConfidence(t *testing.T) {
	cfg := config.Defaults()
	cfg.Quality.MinFactcheckConfidence = "SUPER_HIGH"
	result := config.Validate(cfg, nil)
	assert.True(t, result.HasErrors())
}

func TestValidate_EditorScoreOutOfRange(t *testing.T) {
	cfg := config.Defaults()
	cfg.Quality.MinEditorScore = 1.5
	result := config.Validate(cfg, nil)
	assert.True(t, result.HasErrors())
}

func TestValidate_SearchEnabledRequiresMaxResults(t *testing.T) {
	cfg := config.Defaults()
	cfg.Search.Enabled = true
	cfg.Search.MaxResults = 0
	result := config.Validate(cfg, nil)
	assert.True(t, result.HasErrors())
}
