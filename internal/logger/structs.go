package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// Rotation configures one lumberjack rolled log file.
type Rotation struct {
	Name       string `toml:"name"`
	MaxSize    int    `toml:"maxSize"` // megabytes
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"` // days
}

// LogFile implements a file based logger, one rolled file per level group.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access Rotation `toml:"access"`
	Error  Rotation `toml:"error"`
	Info   Rotation `toml:"info"`
	Trace  Rotation `toml:"trace"`
	Warn   Rotation `toml:"warn"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.

	// EnableAccessLogToConsole writes the web access log to stdout as well.
	// Console.Enabled still has to be true.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	Console Console
	File    LogFile `toml:"file"`
	DataDog DataDog
}
