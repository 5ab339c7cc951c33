package keybinds

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
)

// Config is the user's keybinds.json. Each section maps an action to a
// comma-separated list of keys, e.g. "approve": "a,A".
type Config struct {
	Version   string            `json:"version"`
	Global    map[string]string `json:"global,omitempty"`
	Dashboard map[string]string `json:"dashboard,omitempty"`
	Dialog    map[string]string `json:"dialog,omitempty"`
	Input     map[string]string `json:"input,omitempty"`
	Help      map[string]string `json:"help,omitempty"`
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:    c.Global,
		ContextDashboard: c.Dashboard,
		ContextDialog:    c.Dialog,
		ContextInput:     c.Input,
		ContextHelp:      c.Help,
	}
}

// LoadConfig reads a keybinds.json file. Comments and trailing commas
// are allowed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}
	return &config, nil
}

// SaveConfig writes config as indented JSON
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// splitKeys parses "a, A" into its keys
func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ApplyConfig replaces the keys of every action the config names
func ApplyConfig(registry *Registry, config *Config) error {
	var errs []error
	for context, bindings := range config.sections() {
		for actionStr, keyList := range bindings {
			action := Action(actionStr)
			if err := ValidateAction(actionStr); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", context, err))
				continue
			}
			keys := splitKeys(keyList)
			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					errs = append(errs, fmt.Errorf("%s.%s: %w", context, action, err))
				}
			}
			registry.Unbind(context, action)
			registry.RegisterMultiple(context, keys, action)
		}
	}
	return errors.Join(errs...)
}

// LoadOrDefault returns the defaults with the user file applied over them
// when it exists
func LoadOrDefault(path string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(path); err != nil {
		return registry, nil
	}
	config, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}
	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds.json: %w", err)
	}
	return registry, nil
}

// ExportConfig renders a registry back into the file format
func ExportConfig(registry *Registry) *Config {
	config := &Config{Version: "1.0"}
	targets := map[Context]*map[string]string{
		ContextGlobal:    &config.Global,
		ContextDashboard: &config.Dashboard,
		ContextDialog:    &config.Dialog,
		ContextInput:     &config.Input,
		ContextHelp:      &config.Help,
	}

	for context, bindings := range registry.bindings {
		target, ok := targets[context]
		if !ok {
			continue
		}
		byAction := make(map[Action][]string)
		for key, action := range bindings {
			byAction[action] = append(byAction[action], key)
		}
		*target = make(map[string]string, len(byAction))
		for action, keys := range byAction {
			sort.Strings(keys)
			(*target)[string(action)] = strings.Join(keys, ",")
		}
	}
	return config
}
