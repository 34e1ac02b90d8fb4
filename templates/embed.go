// Package templates embeds the starter files written by colonysim init.
package templates

import "embed"

//go:embed config.yaml scenario.yaml
var FS embed.FS
