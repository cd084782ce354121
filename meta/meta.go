// meta/meta.go
package meta

import "gemduel/game"

// MAX_TURNS caps a single match before it is scored as a draw.
const MAX_TURNS = 300

// GEMS_PER_SIDE is the per-side gem budget placed during seeding.
const GEMS_PER_SIDE = game.GemsPerSide

// Environment variables that override the config file.
const (
	EnvBookURL  = "GEMDUEL_BOOK_URL"
	EnvBookPath = "GEMDUEL_BOOK_PATH"
	EnvWorkers  = "GEMDUEL_WORKERS"
	EnvLogLevel = "GEMDUEL_LOG_LEVEL"
)
