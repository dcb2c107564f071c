package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"starcut/internal/cache"
	"starcut/internal/capture"
	"starcut/internal/config"
	"starcut/internal/export"
	"starcut/internal/history"
	"starcut/internal/ingest"
	"starcut/internal/logging"
	"starcut/internal/media"
	"starcut/internal/services/ffmpeg"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	outputs := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "starcut.log"))
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

func (c *commandContext) newDirs() (*cache.Dirs, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.Paths.BaseDir)
}

func (c *commandContext) newFFmpegClient() (*ffmpeg.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ffmpeg.New(cfg.FFmpegBinary())
}

func (c *commandContext) newProber() (*media.Prober, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return media.New(cfg.FFprobeBinary())
}

// newExporter assembles the export pipeline with job history persistence.
// The caller owns closing the returned store.
func (c *commandContext) newExporter() (*export.Exporter, *history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	dirs, err := c.newDirs()
	if err != nil {
		return nil, nil, err
	}
	client, err := c.newFFmpegClient()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.newLogger()
	if err != nil {
		return nil, nil, err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open job history: %w", err)
	}
	exporter, err := export.New(client, dirs, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return exporter, store, nil
}

func (c *commandContext) newRegistry() (*capture.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	dirs, err := c.newDirs()
	if err != nil {
		return nil, err
	}
	client, err := c.newFFmpegClient()
	if err != nil {
		return nil, err
	}
	logger, err := c.newLogger()
	if err != nil {
		return nil, err
	}
	return capture.NewRegistry(client, dirs, cfg, logger)
}

func (c *commandContext) newIngester() (*ingest.Ingester, error) {
	dirs, err := c.newDirs()
	if err != nil {
		return nil, err
	}
	prober, err := c.newProber()
	if err != nil {
		return nil, err
	}
	logger, err := c.newLogger()
	if err != nil {
		return nil, err
	}
	return ingest.New(dirs, prober, logger)
}
