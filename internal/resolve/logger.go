package resolve

// Logger receives the progress narration of the repairs. It is never used for
// control flow.
type Logger interface {
	// Indent increases the indent of following lines until the returned
	// function is called
	Indent() func()
	DoubleRuleOff()
	RuleOff()
	WriteLine(format string, args ...any)
	Blank()
}

// Matcher decides whether a tag or branch name takes part in the import
type Matcher interface {
	Match(name string) bool
}

type matchAll struct{}

func (matchAll) Match(string) bool { return true }

type discardLogger struct{}

func (discardLogger) Indent() func() { return func() {} }
func (discardLogger) DoubleRuleOff() {}
func (discardLogger) RuleOff() {}
func (discardLogger) WriteLine(string, ...any) {}
func (discardLogger) Blank() {}
