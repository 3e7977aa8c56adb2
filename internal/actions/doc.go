// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a cvsgit command (resolve, check) and
// orchestrates the history pipeline across the cvs, engine and resolve
// packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Splog, Config and the matchers
//   - ResolveHistory is the pipeline itself and takes no I/O dependencies
//   - Tag failures are collected and reported; consistency and merge failures are fatal
package actions
