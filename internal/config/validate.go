package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.BaseDir == "" {
		return errors.New("paths.base_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateCapture() error {
	switch c.Capture.InputFormat {
	case "avfoundation", "x11grab", "gdigrab":
	default:
		return fmt.Errorf("capture.input_format: unsupported value %q", c.Capture.InputFormat)
	}
	if c.Capture.FPS <= 0 || c.Capture.FPS > 240 {
		return fmt.Errorf("capture.fps must be between 1 and 240, got %d", c.Capture.FPS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
