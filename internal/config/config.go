// Package config loads run parameters from an optional YAML file with
// environment overrides. Bearer tokens come from the environment only and
// are never written to or read from the YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RowLimitAll is the row-limit sentinel meaning "read the whole input".
const RowLimitAll = ":all"

type Config struct {
	// Backend selects the lookup service: "sonar" (default) or "gemini".
	Backend string `yaml:"backend"`

	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`

	Temperature float64 `yaml:"temperature"`

	// SearchContextSize hints how much web-search context the lookup service
	// should gather (low, medium, high). Sonar backend only.
	SearchContextSize string `yaml:"search_context_size"`

	Input  string `yaml:"input"`
	Output string `yaml:"output"`

	// RowLimit caps input rows read: ":all" or a non-negative integer.
	RowLimit string `yaml:"row_limit"`
}

func Default() Config {
	return Config{
		Backend:           "sonar",
		Model:             "sonar-pro",
		Temperature:       0.1,
		SearchContextSize: "medium",
		Input:             "bol_export.csv",
		RowLimit:          RowLimitAll,
	}
}

// Load returns defaults overlaid with the YAML file at path (when non-empty)
// and then with environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfPresent(&cfg.Backend, "ENRICHER_BACKEND")
	setIfPresent(&cfg.Model, "ENRICHER_MODEL")
	setIfPresent(&cfg.BaseURL, "ENRICHER_BASE_URL")
	setIfPresent(&cfg.SearchContextSize, "ENRICHER_SEARCH_CONTEXT")
	setIfPresent(&cfg.Input, "ENRICHER_INPUT")
	setIfPresent(&cfg.Output, "ENRICHER_OUTPUT")
	setIfPresent(&cfg.RowLimit, "ENRICHER_ROW_LIMIT")
}

func setIfPresent(dst *string, varName string) {
	if v := strings.TrimSpace(os.Getenv(varName)); v != "" {
		*dst = v
	}
}

func (c Config) validate() error {
	switch strings.TrimSpace(c.Backend) {
	case "sonar", "gemini":
	default:
		return fmt.Errorf("unknown backend %q (want sonar or gemini)", c.Backend)
	}
	if _, err := c.MaxRows(); err != nil {
		return err
	}
	return nil
}

// MaxRows parses the row-limit sentinel. Zero means unbounded.
func (c Config) MaxRows() (int, error) {
	v := strings.TrimSpace(c.RowLimit)
	if v == "" || v == RowLimitAll {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid row_limit %q: want %q or a non-negative integer", c.RowLimit, RowLimitAll)
	}
	return n, nil
}
