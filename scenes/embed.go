// Package scenes embeds the sample scenes and their scripts.
package scenes

import (
	"embed"
)

// Default is the scene the demo opens without flags.
const Default = "demo.yaml"

//go:embed *.yaml scripts/*.tengo
var FS embed.FS
