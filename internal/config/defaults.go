package config

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".officespace.yml"

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           4999,
			RequestTimeout: 60,
		},
		Database: DatabaseConfig{
			Path: "data/officespace.db",
		},
		Grid: GridConfig{
			StartX:  50,
			StartY:  50,
			Width:   100,
			Height:  100,
			GapX:    20,
			GapY:    30,
			PerRow:  6,
			Padding: 50,
		},
		Text: TextConfig{
			NameFontSize:    10,
			DateFontSize:    9,
			NameLineHeight:  11,
			DateLineHeight:  10,
			NameTopMargin:   28,
			OccupantSpacing: 5,
			BoxPadding:      5,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Redis: RedisConfig{
			Channel: "officespace:changes",
		},
		Remote: RemoteConfig{
			BaseURL: "http://127.0.0.1:4999",
			Timeout: 15,
			Retries: 2,
		},
	}
}
