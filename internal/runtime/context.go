package runtime

import (
	"context"
	"errors"

	"cvsgit.dev/cvsgit/internal/config"
	"cvsgit.dev/cvsgit/internal/output"
)

// Context provides access to output and settings for commands
type Context struct {
	Splog  *output.Splog
	Config *config.Config

	TagMatcher    *config.InclusionMatcher
	BranchMatcher *config.InclusionMatcher
}

// NewContext creates a context with console logging and default settings
func NewContext() *Context {
	return &Context{
		Splog:         output.NewSplog(),
		Config:        &config.Config{},
		TagMatcher:    config.NewInclusionMatcher(),
		BranchMatcher: config.NewInclusionMatcher(),
	}
}

// NewContextWithConfig creates a context from a loaded configuration plus the
// rules given on the command line, which follow the configured ones
func NewContextWithConfig(splog *output.Splog, cfg *config.Config, tagRules, branchRules []config.Rule) (*Context, error) {
	tags, err := cfg.TagMatcher(tagRules...)
	if err != nil {
		return nil, err
	}
	branches, err := cfg.BranchMatcher(branchRules...)
	if err != nil {
		return nil, err
	}
	return &Context{
		Splog:         splog,
		Config:        cfg,
		TagMatcher:    tags,
		BranchMatcher: branches,
	}, nil
}

type contextKey struct{}

// WithContext returns a copy of parent carrying c
func WithContext(parent context.Context, c *Context) context.Context {
	return context.WithValue(parent, contextKey{}, c)
}

// GetContext returns the Context stored by WithContext
func GetContext(ctx context.Context) (*Context, error) {
	if ctx != nil {
		if c, ok := ctx.Value(contextKey{}).(*Context); ok && c != nil {
			return c, nil
		}
	}
	return nil, errors.New("command context is not initialized")
}
