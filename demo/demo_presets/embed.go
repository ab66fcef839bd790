package demo_presets

import (
	"embed"
)

// FS provides embedded default preset files for external usage.
//
//go:embed *.preset.yaml *.preset.json
var FS embed.FS
