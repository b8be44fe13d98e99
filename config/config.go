package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Decoder DecoderConfig `json:"decoder" yaml:"decoder"`
	Parser  ParserConfig  `json:"parser" yaml:"parser"`
	Filters FilterConfig  `json:"filters" yaml:"filters"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Output  OutputConfig  `json:"output" yaml:"output"`
}

// DecoderConfig holds the free-text decoding options.
type DecoderConfig struct {
	Encodings []string `json:"encodings" yaml:"encodings"` // Tried in order for <name> and <comment>
}

// ParserConfig holds changelog parsing options.
type ParserConfig struct {
	StrictInverted bool `json:"strictInverted" yaml:"strictInverted"`
	Workers        int  `json:"workers" yaml:"workers"` // 0 means GOMAXPROCS
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // trace, debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text, json
}

// OutputConfig holds report defaults.
type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
	Top    int    `json:"top" yaml:"top"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Decoder: DecoderConfig{
			Encodings: []string{"UTF-8", "ISO-8859-1", "UTF-16"},
		},
		Parser: ParserConfig{
			StrictInverted: false,
			Workers:        0,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "console",
			Top:    0,
		},
	}
}

var defaultNames = []string{".darcslog.json", ".darcslog.yaml", ".darcslog.yml"}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findDefault()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

func findDefault() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}

	for _, dir := range dirs {
		for _, name := range defaultNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveConfig saves configuration to a file, as YAML or JSON by extension.
func SaveConfig(cfg *Config, path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
