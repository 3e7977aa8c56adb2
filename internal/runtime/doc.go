// Package runtime provides the execution context for cvsgit commands.
//
// It encapsulates shared dependencies and configuration needed by actions,
// such as the logger, the loaded configuration and the tag and branch matchers.
package runtime
