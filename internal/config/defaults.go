package config

// Default returns a Config populated with repository defaults. Paths are
// left in tilde form and expanded during normalize.
func Default() Config {
	return Config{
		Timer: Timer{
			Device:    "/dev/ttyUSB0",
			Baud:      9600,
			LaneCount: 4,
		},
		Capture: Capture{
			ReadTimeoutMillis: 1000,
			MaxLineBytes:      4096,
			EventBuffer:       16,
		},
		Paths: Paths{
			ResultsDir: "~/.local/share/champtimer/results",
			LogDir:     "~/.local/share/champtimer/logs",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
