// Package config handles reading and writing .memoflow/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .memoflow/config.yaml. It lives
// inside the voice-memos root and is passed explicitly into every component;
// there is no package-level mutable state.
type Config struct {
	Version   int             `yaml:"version"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Interview InterviewConfig `yaml:"interview"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
}

// OllamaConfig holds the text-generation backend settings.
type OllamaConfig struct {
	BaseURL            string  `yaml:"base_url"`
	Model              string  `yaml:"model"`
	TopP               float64 `yaml:"top_p"`
	ExtractTemperature float64 `yaml:"extract_temperature"`
	WritingTemperature float64 `yaml:"writing_temperature"`
	ExtractTimeout     int     `yaml:"extract_timeout"` // seconds
	WritingTimeout     int     `yaml:"writing_timeout"` // seconds
}

// InterviewConfig controls related-memo retrieval and conversation summaries.
type InterviewConfig struct {
	RelatedLimit  int     `yaml:"related_limit"`
	MinSimilarity float64 `yaml:"min_similarity"`
	SummaryWindow int     `yaml:"summary_window"`
	PreviewLength int     `yaml:"preview_length"`
}

// CleanupConfig holds defaults for the clean command.
type CleanupConfig struct {
	MaxAgeDays int `yaml:"max_age_days"`
}

const configDir = ".memoflow"
const configFile = "config.yaml"

// ReadConfig reads .memoflow/config.yaml from the given memos root.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .memoflow/config.yaml in the given memos root.
// Creates the .memoflow/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
// The two temperatures mirror the two operation classes: low for structured
// extraction, higher for creative writing and interview prompts.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Ollama: OllamaConfig{
			BaseURL:            "http://localhost:11434",
			Model:              "llama3.2:3b",
			TopP:               0.9,
			ExtractTemperature: 0.3,
			WritingTemperature: 0.7,
			ExtractTimeout:     120,
			WritingTimeout:     300,
		},
		Interview: InterviewConfig{
			RelatedLimit:  3,
			MinSimilarity: 0.1,
			SummaryWindow: 3,
			PreviewLength: 100,
		},
		Cleanup: CleanupConfig{
			MaxAgeDays: 90,
		},
	}
}

// ExtractRequestTimeout returns the extraction timeout as a duration.
func (c *Config) ExtractRequestTimeout() time.Duration {
	return time.Duration(c.Ollama.ExtractTimeout) * time.Second
}

// WritingRequestTimeout returns the writing/interview timeout as a duration.
func (c *Config) WritingRequestTimeout() time.Duration {
	return time.Duration(c.Ollama.WritingTimeout) * time.Second
}
