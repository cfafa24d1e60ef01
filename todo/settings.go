package todo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

const (
	// DefaultConfigFile is the well-known config file in the working directory.
	DefaultConfigFile = "app.conf"
	// DefaultDBName is the logical database name used before any config exists.
	DefaultDBName = "todo"

	storeSuffix = ".store"
	dbKey       = "db"
)

// Settings is the resolved configuration. Values are never modified in
// place; Update returns a copy.
type Settings struct {
	db    string
	saved bool
}

// SystemDefault returns the built-in settings. They are not marked saved.
func SystemDefault() Settings {
	return Settings{db: DefaultDBName}
}

// Update returns a copy using db as the logical name.
func (s Settings) Update(db string) Settings {
	return Settings{db: db, saved: s.saved}
}

// DB returns the logical database name.
func (s Settings) DB() string { return s.db }

// Path returns the store file derived from the logical name.
func (s Settings) Path() string { return s.db + storeSuffix }

// IsConfigAvailable reports whether the settings came from a config file.
func (s Settings) IsConfigAvailable() bool { return s.saved }

// String renders the settings in config file form.
func (s Settings) String() string {
	return fmt.Sprintf("%s=%s\n", dbKey, strings.TrimSuffix(strings.TrimSpace(s.db), storeSuffix))
}

// TestSetup checks the store behind the settings.
func (s Settings) TestSetup(store Store, log *slog.Logger) (Response, error) {
	if err := store.HealthCheck(s.Path()); err != nil {
		log.Warn("health check failed", "path", s.Path(), "error", err)
		return nil, ErrTestFailed
	}
	return Done{}, nil
}

// InitializeDB creates the schema in the store behind the settings.
func (s Settings) InitializeDB(store Store, log *slog.Logger) (Response, error) {
	if err := store.Initialize(s.Path()); err != nil {
		log.Warn("unable to initialize the db", "path", s.Path(), "error", err)
		return nil, ErrUnableToInitialize
	}
	return Done{}, nil
}

// ConfigFile reads and writes the key=value config file.
type ConfigFile struct {
	Name string
	log  *slog.Logger
}

// NewConfigFile returns a ConfigFile for name, falling back to
// DefaultConfigFile when name is empty.
func NewConfigFile(name string, log *slog.Logger) ConfigFile {
	if name == "" {
		name = DefaultConfigFile
	}
	if log == nil {
		log = slog.Default()
	}
	return ConfigFile{Name: name, log: log}
}

// Load reads the config file. Unknown keys and lines without '=' are
// skipped. A missing file yields ErrInitNotAvailable.
func (c ConfigFile) Load() (Settings, error) {
	f, err := os.Open(c.Name)
	if err != nil {
		return Settings{}, ErrInitNotAvailable
	}
	defer f.Close()

	db := DefaultDBName
	// Lines may be of any length.
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if key, value, ok := strings.Cut(line, "="); ok && strings.TrimSpace(key) == dbKey {
			if v := strings.TrimSpace(value); v != "" {
				db = v
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.log.Info("couldn't read config", "file", c.Name, "error", err)
			return Settings{}, ErrInitNotAvailable
		}
	}
	return Settings{db: db, saved: true}, nil
}

// Ensure creates the config file when it does not exist yet.
func (c ConfigFile) Ensure() error {
	if _, err := os.Stat(c.Name); err == nil {
		c.log.Info("config initialized", "file", c.Name)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		c.log.Info("couldn't stat config", "file", c.Name, "error", err)
		return ErrUnableToInitialize
	}

	f, err := os.Create(c.Name)
	if err != nil {
		c.log.Info("couldn't create config", "file", c.Name, "error", err)
		return ErrUnableToInitialize
	}
	if err := f.Close(); err != nil {
		return ErrUnableToInitialize
	}
	return nil
}

// WriteDefault writes s into the existing config file, replacing its content.
func (c ConfigFile) WriteDefault(s Settings) error {
	f, err := os.OpenFile(c.Name, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		c.log.Info("couldn't write to config", "file", c.Name, "error", err)
		return ErrUnableToInitialize
	}
	defer f.Close()

	if _, err := f.WriteString(s.String()); err != nil {
		c.log.Info("couldn't write to config", "file", c.Name, "error", err)
		return ErrUnableToInitialize
	}
	return nil
}

// WriteCustom is reserved for writing user supplied settings.
func (c ConfigFile) WriteCustom(Settings) error {
	return nil
}
