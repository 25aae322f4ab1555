package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the wikiforge configuration file.
const FileName = "wikiforge.toml"

// FindConfigFile walks up from startDir looking for wikiforge.toml, stopping
// at the filesystem root. It returns an empty path (and no error) when no
// config file is found anywhere in the tree.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("config: resolving path: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromFile parses the TOML file at path on top of Defaults() and returns
// the merged configuration along with the decode metadata (used by Validate
// to flag unknown keys via MetaData.Undecoded()).
func LoadFromFile(path string) (*Config, toml.MetaData, error) {
	cfg := Defaults()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, md, fmt.Errorf("config: loading %s: %w", path, err)
	}
	return cfg, md, nil
}

// Load resolves a configuration from an explicit path (if non-empty), or by
// searching upward from dir for wikiforge.toml, falling back to Defaults()
// when no file is found anywhere.
func Load(explicitPath, dir string) (*Config, error) {
	path := explicitPath
	if path == "" {
		found, err := FindConfigFile(dir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return Defaults(), nil
	}
	cfg, md, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	result := Validate(cfg, &md)
	if result.HasErrors() {
		return nil, fmt.Errorf("config: %s is invalid: %s", path, result.Errors()[0].Message)
	}
	return cfg, nil
}
