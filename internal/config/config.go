package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is one entry of an include/exclude list. Exactly one field is set.
type Rule struct {
	Include string `yaml:"include,omitempty"`
	Exclude string `yaml:"exclude,omitempty"`
}

// Validate checks that exactly one of Include and Exclude is set
func (r Rule) Validate() error {
	if (r.Include == "") == (r.Exclude == "") {
		return errors.New("rule must have exactly one of include or exclude")
	}
	return nil
}

func (r Rule) String() string {
	if r.Include != "" {
		return "+" + r.Include
	}
	return "-" + r.Exclude
}

// Config is the contents of a cvsgit configuration file
type Config struct {
	Debug    bool   `yaml:"debug,omitempty"`
	LogFile  string `yaml:"log-file,omitempty"`
	NoFix    bool   `yaml:"no-fix,omitempty"`
	Tags     []Rule `yaml:"tags,omitempty"`
	Branches []Rule `yaml:"branches,omitempty"`
}

// LoadConfig reads a configuration file. An empty path gives the default
// configuration; a named file that cannot be read is an error.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	for i, r := range config.Tags {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("config %s: tags rule %d: %w", path, i+1, err)
		}
	}
	for i, r := range config.Branches {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("config %s: branches rule %d: %w", path, i+1, err)
		}
	}

	return config, nil
}

// TagMatcher compiles the configured tag rules followed by extra rules
func (c *Config) TagMatcher(extra ...Rule) (*InclusionMatcher, error) {
	return newMatcher("tag", c.Tags, extra)
}

// BranchMatcher compiles the configured branch rules followed by extra rules
func (c *Config) BranchMatcher(extra ...Rule) (*InclusionMatcher, error) {
	return newMatcher("branch", c.Branches, extra)
}

func newMatcher(kind string, configured, extra []Rule) (*InclusionMatcher, error) {
	m := NewInclusionMatcher()
	for _, rules := range [][]Rule{configured, extra} {
		for _, r := range rules {
			if err := m.AddRule(r); err != nil {
				return nil, fmt.Errorf("%s rule %s: %w", kind, r, err)
			}
		}
	}
	return m, nil
}
