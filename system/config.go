package system

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML file of flat key/value pairs for the system
// configuration store. Scalar values are stringified; nested mappings or
// sequences are rejected.
//
// Example file:
//
//	max_agents: 10
//	attention_update_interval: 1000
//	self_modification_probability: 0.01
func LoadConfig(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config := make(map[string]string, len(raw))
	for key, value := range raw {
		switch value.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("config key %q: nested values are not supported", key)
		case nil:
			config[key] = ""
		default:
			config[key] = fmt.Sprint(value)
		}
	}

	return config, nil
}

// LoadConfigFile loads a YAML configuration file into the system's store.
// Existing keys are overwritten; keys absent from the file are kept.
func (s *System) LoadConfigFile(path string) error {
	config, err := LoadConfig(path)
	if err != nil {
		return err
	}
	for key, value := range config {
		s.SetConfig(key, value)
	}
	return nil
}
