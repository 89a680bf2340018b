package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProviderCatalog is the optional YAML file named by PROVIDERS_FILE.
//
//	default_provider: Axis_PSP
//	preference_order: [HDFC_PSP, SBI_PSP, Axis_PSP]
//	providers:
//	  - name: Axis_PSP
//	    endpoint: http://psp_axis:9000/process
//	    timeout: 3s
//	  - name: Local_PSP
//	    simulated:
//	      base_fail: 0.05
type ProviderCatalog struct {
	DefaultProvider string           `yaml:"default_provider"`
	PreferenceOrder []string         `yaml:"preference_order"`
	Providers       []ProviderConfig `yaml:"providers"`
}

// LoadProviderCatalog reads and parses a provider catalog file
func LoadProviderCatalog(path string) (*ProviderCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider catalog %q: %w", path, err)
	}

	var catalog ProviderCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse provider catalog %q: %w", path, err)
	}

	for i, p := range catalog.Providers {
		if p.Name == "" {
			return nil, fmt.Errorf("provider catalog %q: entry %d has no name", path, i)
		}
	}

	return &catalog, nil
}

// apply merges the catalog over cfg. Providers are matched by name.
func (c *ProviderCatalog) apply(cfg *Config) {
	if c.DefaultProvider != "" {
		cfg.Routing.DefaultProvider = c.DefaultProvider
	}
	if len(c.PreferenceOrder) > 0 {
		cfg.Routing.PreferenceOrder = append([]string(nil), c.PreferenceOrder...)
	}
	for _, p := range c.Providers {
		cfg.Providers.Upsert(p)
	}
}
