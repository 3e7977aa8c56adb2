package config

import (
	"fmt"
	"regexp"
)

type rule struct {
	pattern *regexp.Regexp
	include bool
}

// InclusionMatcher decides whether a tag or branch name is imported, using an
// ordered list of include and exclude rules. The last matching rule wins.
//
// With no rules every name is included. Once any include rule exists, names
// matching no rule are excluded; with only exclude rules they are included.
type InclusionMatcher struct {
	rules      []rule
	hasInclude bool
}

// NewInclusionMatcher creates a matcher with no rules
func NewInclusionMatcher() *InclusionMatcher {
	return &InclusionMatcher{}
}

// AddIncludeRule appends a rule including names that match pattern
func (m *InclusionMatcher) AddIncludeRule(pattern string) error {
	return m.add(pattern, true)
}

// AddExcludeRule appends a rule excluding names that match pattern
func (m *InclusionMatcher) AddExcludeRule(pattern string) error {
	return m.add(pattern, false)
}

// AddRule appends a configured rule
func (m *InclusionMatcher) AddRule(r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Include != "" {
		return m.AddIncludeRule(r.Include)
	}
	return m.AddExcludeRule(r.Exclude)
}

func (m *InclusionMatcher) add(pattern string, include bool) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
	}
	m.rules = append(m.rules, rule{pattern: re, include: include})
	if include {
		m.hasInclude = true
	}
	return nil
}

// Match returns true if name is included
func (m *InclusionMatcher) Match(name string) bool {
	for i := len(m.rules) - 1; i >= 0; i-- {
		if m.rules[i].pattern.MatchString(name) {
			return m.rules[i].include
		}
	}
	return !m.hasInclude
}

// Len returns the number of rules
func (m *InclusionMatcher) Len() int {
	return len(m.rules)
}
