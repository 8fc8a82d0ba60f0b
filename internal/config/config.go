// Package config manages application configuration from files and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Output struct {
		Path       string `mapstructure:"path" yaml:"path"`
		Format     string `mapstructure:"format" yaml:"format"`
		Color      bool   `mapstructure:"color" yaml:"color"`
		PageHeight int    `mapstructure:"page_height" yaml:"page_height"`
	} `mapstructure:"output" yaml:"output"`
	Grid struct {
		Sheet string `mapstructure:"sheet" yaml:"sheet"`
	} `mapstructure:"grid" yaml:"grid"`
	Watch struct {
		DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	} `mapstructure:"watch" yaml:"watch"`
	Shell struct {
		History bool `mapstructure:"history" yaml:"history"`
	} `mapstructure:"shell" yaml:"shell"`
}

// Issue is a problem found by Validate.
type Issue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

var defaults = map[string]any{
	"output.path":        "pick3_results.xlsx",
	"output.format":      "text",
	"output.color":       true,
	"output.page_height": 50,
	"grid.sheet":         "",
	"watch.debounce_ms":  500,
	"shell.history":      true,
}

// Load reads the configuration from ~/.pick3/config.yaml and PICK3_*
// environment variables. A missing config file is not an error.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	for k, v := range defaults {
		viper.SetDefault(k, v)
	}

	viper.SetEnvPrefix("PICK3")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not read %s: %w", ConfigPath(), err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// Keys lists the settable config keys.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResetConfig deletes the config file and restores defaults.
func ResetConfig() error {
	if err := os.Remove(ConfigPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	for k, v := range defaults {
		viper.Set(k, v)
	}
	return nil
}

// SaveConfig writes the current config to ~/.pick3/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(ConfigPath()); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// ToEnv maps every known key to its PICK3_* environment variable and
// current value.
func ToEnv() map[string]string {
	env := make(map[string]string, len(defaults))
	for _, k := range Keys() {
		env[EnvName(k)] = viper.GetString(k)
	}
	return env
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return "PICK3_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns the effective configuration as YAML.
func ShowConfig() (string, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return "", fmt.Errorf("invalid configuration: %w", err)
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", fmt.Errorf("could not render configuration: %w", err)
	}
	return fmt.Sprintf("# %s\n%s", ConfigPath(), data), nil
}

// Validate checks config values and returns a list of issues.
func Validate() []Issue {
	var issues []Issue

	switch strings.ToLower(viper.GetString("output.format")) {
	case "", "text", "table", "json", "csv", "markdown", "md":
	default:
		issues = append(issues, Issue{
			Key:      "output.format",
			Severity: "error",
			Message:  fmt.Sprintf("unknown output format %q", viper.GetString("output.format")),
			Fix:      "pick3 config set output.format text",
		})
	}

	if p := viper.GetString("output.path"); p != "" && !strings.HasSuffix(strings.ToLower(p), ".xlsx") {
		issues = append(issues, Issue{
			Key:      "output.path",
			Severity: "warning",
			Message:  fmt.Sprintf("export path %q has no .xlsx extension; one will be appended", p),
		})
	}

	if d := viper.GetInt("watch.debounce_ms"); d <= 0 {
		issues = append(issues, Issue{
			Key:      "watch.debounce_ms",
			Severity: "warning",
			Message:  fmt.Sprintf("debounce of %dms disables coalescing of rapid writes; 500ms is used instead", d),
			Fix:      "pick3 config set watch.debounce_ms 500",
		})
	}

	return issues
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pick3"
	}
	return filepath.Join(home, ".pick3")
}
