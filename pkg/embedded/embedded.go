// Package embedded carries the data files compiled into the binary.
package embedded

import (
	_ "embed"
)

// Seed training patterns for the transition model: two short melodic
// phrases the model is trained on at construction, before any user
// melodies are fed back in.
//
//go:embed data/seed_patterns.json
var SeedPatternsJSON []byte
