package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/sydlexius/mbmerge/internal/config"
	"github.com/sydlexius/mbmerge/internal/database"
	"github.com/sydlexius/mbmerge/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	logManager *logging.Manager
	logger     *slog.Logger

	db   *sql.DB
	lock *flock.Flock
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration and sets up logging once per
// process.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := c.resolveConfigPath()
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("loading config: %w", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.logManager, c.logger = logging.NewManager(cfg.Logging)
		slog.SetDefault(c.logger)
	})
	return c.config, c.configErr
}

func (c *commandContext) resolveConfigPath() string {
	if c.configFlag != nil {
		if p := strings.TrimSpace(*c.configFlag); p != "" {
			return p
		}
	}
	if p := os.Getenv(config.EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "mbmerge", "config.yaml")
}

// openDB opens and migrates the database, reusing the handle for the rest
// of the command.
func (c *commandContext) openDB(ctx context.Context) (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := database.OpenAndMigrate(ctx, c.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	c.db = db
	c.logger.Debug("database ready", slog.String("path", c.config.Database.Path))
	return db, nil
}

// acquireLock takes the process lock in the data directory so that two
// sessions never share the identifier cache and ban list.
func (c *commandContext) acquireLock() error {
	dir := c.config.DataDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	lockPath := filepath.Join(dir, "mbmerge.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mbmerge session is already running")
	}
	c.lock = lock
	return nil
}

// watchConfig pushes logging changes from the config file into the
// logging manager until ctx is done.
func (c *commandContext) watchConfig(ctx context.Context) {
	if _, err := os.Stat(c.configPath); err != nil {
		return
	}
	w := config.NewWatcher(c.configPath, func(cfg *config.Config) {
		c.logManager.Reconfigure(cfg.Logging)
		c.logger.Info("logging reconfigured", slog.String("logging", cfg.Logging.String()))
	}, c.logger)
	go func() {
		if err := w.Run(ctx); err != nil {
			c.logger.Warn("config watcher stopped", slog.String("error", err.Error()))
		}
	}()
}

func (c *commandContext) close() {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("closing database", slog.String("error", err.Error()))
		}
		c.db = nil
	}
	if c.lock != nil {
		if err := c.lock.Unlock(); err != nil {
			c.logger.Warn("failed to release lock", slog.String("error", err.Error()))
		}
		c.lock = nil
	}
	if c.logManager != nil {
		_ = c.logManager.Close()
		c.logManager = nil
	}
}
