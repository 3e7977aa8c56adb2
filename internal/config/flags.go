package config

import (
	"strings"

	"github.com/spf13/pflag"
)

// ruleFlag appends to a shared rule list so that the relative order of
// --include-x and --exclude-x on the command line is kept
type ruleFlag struct {
	rules   *[]Rule
	include bool
}

var _ pflag.Value = (*ruleFlag)(nil)

// NewRuleFlags returns the include and exclude flag values for one rule list
func NewRuleFlags(rules *[]Rule) (include pflag.Value, exclude pflag.Value) {
	return &ruleFlag{rules: rules, include: true}, &ruleFlag{rules: rules}
}

func (f *ruleFlag) String() string {
	if f.rules == nil {
		return ""
	}
	var patterns []string
	for _, r := range *f.rules {
		if f.include && r.Include != "" {
			patterns = append(patterns, r.Include)
		} else if !f.include && r.Exclude != "" {
			patterns = append(patterns, r.Exclude)
		}
	}
	return "[" + strings.Join(patterns, ",") + "]"
}

func (f *ruleFlag) Set(value string) error {
	r := Rule{Exclude: value}
	if f.include {
		r = Rule{Include: value}
	}
	if err := NewInclusionMatcher().AddRule(r); err != nil {
		return err
	}
	*f.rules = append(*f.rules, r)
	return nil
}

func (f *ruleFlag) Type() string {
	return "regex"
}
