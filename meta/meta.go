// Package meta holds the defaults of the command line tools.
package meta

import "time"

const (
	DefaultHost = "localhost"
	DefaultPort = 13050
	// GameType is sent when joining any open game.
	GameType = "swc_2020_hive"

	DefaultTurnTimeout = 10 * time.Second
	DefaultGames       = 10
	DefaultOutDir      = "experiments/selfplay"
)
