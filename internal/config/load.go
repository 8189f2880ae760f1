package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Function variable for dependency injection in tests.
var hostname = os.Hostname

// New returns a configuration populated with installer defaults.
func New() (*InstanceConfig, error) {
	cfg := &InstanceConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	applyHostDefaults(cfg)
	return cfg, nil
}

// LoadFile reads and parses an instance configuration from a YAML file.
func LoadFile(path string) (*InstanceConfig, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(data)
}

// Load parses an instance configuration from YAML bytes.
//
// Defaults are applied before decoding so that keys present in the document,
// including explicit false booleans, always win.
func Load(data []byte) (*InstanceConfig, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg := &InstanceConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	ApplyEnvironment(cfg, os.Getenv)
	applyHostDefaults(cfg)

	return cfg, nil
}

// ApplyEnvironment overlays the few settings the installer historically took
// from the environment. Values already present in the record are kept.
//
// Environment Variables:
//   - NETSITE_ROOT or DSINSTALL_PREFIX: install prefix
//   - DSINSTALL_SERVUSER: run-as user
func ApplyEnvironment(cfg *InstanceConfig, getenv func(string) string) {
	if cfg.Prefix == "" {
		if v := getenv("DSINSTALL_PREFIX"); v != "" {
			cfg.Prefix = v
		} else if v := getenv("NETSITE_ROOT"); v != "" {
			cfg.Prefix = v
		}
	}
	if cfg.ServerUser == "" {
		cfg.ServerUser = getenv("DSINSTALL_SERVUSER")
	}
}

// applyHostDefaults fills the server name from the host name and the server
// id from its first label.
func applyHostDefaults(cfg *InstanceConfig) {
	if cfg.ServerName != "" && cfg.ServerID != "" {
		return
	}
	host, err := hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	if cfg.ServerID == "" {
		short, _, _ := strings.Cut(cfg.ServerName, ".")
		cfg.ServerID = short
	}
}
