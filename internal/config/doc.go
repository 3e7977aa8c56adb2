// Package config loads cvsgit settings from an optional YAML file and the
// command line.
//
// It handles:
//   - Ordered include/exclude rules for tags and branches
//   - The YAML configuration file
//   - Rule flags that keep command-line order across --include-* and --exclude-*
package config
