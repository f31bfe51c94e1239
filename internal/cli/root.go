package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/dailycoach/internal/backup"
	"github.com/julianstephens/dailycoach/internal/config"
	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/keyring"
	"github.com/julianstephens/dailycoach/internal/logger"
	"github.com/julianstephens/dailycoach/internal/storage"
	"github.com/julianstephens/dailycoach/internal/storage/postgres"
	"github.com/julianstephens/dailycoach/internal/storage/sqlite"
)

type Context struct {
	Store  storage.Provider
	Config config.Config
}

// Migrator is implemented by stores with a versioned schema.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	PendingMigrations() (int, error)
}

// IsSQLite reports whether the store is a local database file.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir is where logs and other local state live for cfg.
func ConfigDir(cfg config.Config) string {
	if !cfg.IsPostgres() {
		if path, err := ExpandPath(cfg.Database); err == nil {
			return filepath.Dir(path)
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppName)
	}
	return "."
}

// NewStore picks the backend for cfg.Database. When the database is left at
// its default and a connection string is stored in the keyring, the keyring wins.
func NewStore(cfg config.Config) (storage.Provider, error) {
	database := cfg.Database
	fromKeyring := false
	if database == constants.DefaultConfigPath {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			database = connStr
			fromKeyring = true
		} else if !stderrors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup skipped", "error", err)
		}
	}

	if isPostgres(database) {
		if _, err := postgres.ValidateConnString(database); err != nil {
			embedded := stderrors.Is(err, postgres.ErrEmbeddedCredentials)
			switch {
			case embedded && fromKeyring:
				// Passwords may live in the keyring entry itself.
			case embedded:
				return nil, fmt.Errorf("%w: store it with '%s keyring set' or use .pgpass instead", err, constants.AppName)
			default:
				return nil, err
			}
		}
		return postgres.New(database), nil
	}

	path, err := ExpandPath(database)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

func isPostgres(database string) bool {
	return (config.Config{Database: database}).IsPostgres() || strings.Contains(database, "host=")
}
