package todo

// Setup runs a setup action. Init creates the config file, writes settings
// into it and creates the store schema, stopping at the first failure;
// nothing already done is rolled back. Test requires settings loaded from
// the config file and checks the store.
func (m *Manager) Setup(settings Settings, action SetupAction) (Response, error) {
	switch action {
	case Init:
		return m.initialize(settings)
	case Test:
		if !settings.IsConfigAvailable() {
			return nil, ErrTestFailed
		}
		return settings.TestSetup(m.store, m.log)
	default:
		return Empty{}, nil
	}
}

func (m *Manager) initialize(settings Settings) (Response, error) {
	if err := m.config.Ensure(); err != nil {
		return nil, err
	}
	if err := m.config.WriteDefault(settings); err != nil {
		return nil, err
	}
	return settings.InitializeDB(m.store, m.log)
}
