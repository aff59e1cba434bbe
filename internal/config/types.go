package config

// Config is the top-level officespace configuration, corresponding to .officespace.yml.
type Config struct {
	Server     ServerConfig   `yaml:"server" koanf:"server"`
	Database   DatabaseConfig `yaml:"database" koanf:"database"`
	FloorsFile string         `yaml:"floors_file" koanf:"floors_file"`
	Grid       GridConfig     `yaml:"grid" koanf:"grid"`
	Text       TextConfig     `yaml:"text" koanf:"text"`
	Log        LogConfig      `yaml:"log" koanf:"log"`
	Redis      RedisConfig    `yaml:"redis" koanf:"redis"`
	Remote     RemoteConfig   `yaml:"remote" koanf:"remote"`
	Audit      AuditConfig    `yaml:"audit" koanf:"audit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int  `yaml:"port" koanf:"port"`
	AllowAll       bool `yaml:"allow_all" koanf:"allow_all"`
	RequestTimeout int  `yaml:"request_timeout" koanf:"request_timeout"` // seconds
}

// DatabaseConfig points at the SQLite file holding office assignments.
type DatabaseConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

// GridConfig controls the fixed office grid.
type GridConfig struct {
	StartX  float64 `yaml:"start_x" koanf:"start_x"`
	StartY  float64 `yaml:"start_y" koanf:"start_y"`
	Width   float64 `yaml:"width" koanf:"width"`
	Height  float64 `yaml:"height" koanf:"height"`
	GapX    float64 `yaml:"gap_x" koanf:"gap_x"`
	GapY    float64 `yaml:"gap_y" koanf:"gap_y"`
	PerRow  int     `yaml:"per_row" koanf:"per_row"`
	Padding float64 `yaml:"padding" koanf:"padding"`
}

// TextConfig controls occupant text placement inside an office box.
type TextConfig struct {
	NameFontSize    float64 `yaml:"name_font_size" koanf:"name_font_size"`
	DateFontSize    float64 `yaml:"date_font_size" koanf:"date_font_size"`
	NameLineHeight  float64 `yaml:"name_line_height" koanf:"name_line_height"`
	DateLineHeight  float64 `yaml:"date_line_height" koanf:"date_line_height"`
	NameTopMargin   float64 `yaml:"name_top_margin" koanf:"name_top_margin"`
	OccupantSpacing float64 `yaml:"occupant_spacing" koanf:"occupant_spacing"`
	BoxPadding      float64 `yaml:"box_padding" koanf:"box_padding"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level      string `yaml:"level" koanf:"level"`
	Format     string `yaml:"format" koanf:"format"` // json or console
	File       string `yaml:"file" koanf:"file"`
	MaxSize    int    `yaml:"max_size" koanf:"max_size"` // megabytes
	MaxBackups int    `yaml:"max_backups" koanf:"max_backups"`
	MaxAge     int    `yaml:"max_age" koanf:"max_age"` // days
	Compress   bool   `yaml:"compress" koanf:"compress"`
}

// RedisConfig enables cross-instance change notifications. An empty Addr
// keeps notifications in-process.
type RedisConfig struct {
	Addr     string `yaml:"addr" koanf:"addr"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db"`
	Channel  string `yaml:"channel" koanf:"channel"`
}

// RemoteConfig describes another officespace server used by the CLI.
type RemoteConfig struct {
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	Timeout int    `yaml:"timeout" koanf:"timeout"` // seconds
	Retries int    `yaml:"retries" koanf:"retries"`
}

// AuditConfig controls how long audit entries are kept. Zero keeps them
// forever.
type AuditConfig struct {
	RetentionDays int `yaml:"retention_days" koanf:"retention_days"`
}
