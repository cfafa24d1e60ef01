package todo

import (
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Manager is a thin façade over the Store and the config file, keeping CLI
// code simple.
type Manager struct {
	store    Store
	config   ConfigFile
	validate *validator.Validate
	log      *slog.Logger
}

// NewManager wires a Manager. A nil logger falls back to slog.Default.
func NewManager(store Store, config ConfigFile, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:    store,
		config:   config,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// ResolveSettings loads the config file, falling back to SystemDefault when
// it cannot be read. When overridden is set, the logical name is replaced
// by the trimmed, lowercased db for this invocation only.
func (m *Manager) ResolveSettings(db string, overridden bool) Settings {
	settings, err := m.config.Load()
	if err != nil {
		m.log.Info("unable to load configuration, using default", "reason", err)
		settings = SystemDefault()
	}
	if overridden {
		if name := strings.ToLower(strings.TrimSpace(db)); name != "" {
			settings = settings.Update(name)
		}
	}
	return settings
}
