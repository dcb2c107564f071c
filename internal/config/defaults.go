package config

const (
	defaultBaseDir            = "~/.local/share/starcut"
	defaultLogDir             = "~/.local/share/starcut/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultCaptureInputFormat = "avfoundation"
	defaultCaptureFPS         = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir: defaultBaseDir,
			LogDir:  defaultLogDir,
		},
		Capture: Capture{
			InputFormat: defaultCaptureInputFormat,
			FPS:         defaultCaptureFPS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
