// Package builtin embeds the default rule files used when no rules folder is configured.
package builtin

import "embed"

// FS holds the built-in rule files at its root.
//
//go:embed *.yaml
var FS embed.FS
