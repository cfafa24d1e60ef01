package todo

// Do dispatches action against the store behind settings. Nothing touches
// the store until the settings have been loaded from a config file.
func (m *Manager) Do(settings Settings, action Action) (Response, error) {
	if !settings.IsConfigAvailable() {
		return nil, ErrInitNotAvailable
	}
	path := settings.Path()

	switch a := action.(type) {
	case Save:
		return m.save(path, a.Todo)
	case FetchAll:
		todos, err := m.store.FindAll(path)
		if err != nil {
			return nil, m.storeFailed("fetch all", path, err)
		}
		return All{Todos: todos}, nil
	case FetchByID:
		t, err := m.store.FindByID(path, a.ID)
		if err != nil {
			return nil, m.storeFailed("fetch", path, err)
		}
		return One{Todo: t}, nil
	case DeleteAll:
		if err := m.store.RemoveAll(path); err != nil {
			return nil, m.storeFailed("delete all", path, err)
		}
		return Done{}, nil
	case DeleteByID:
		if err := m.store.RemoveByID(path, a.ID); err != nil {
			return nil, m.storeFailed("delete", path, err)
		}
		return Done{}, nil
	default:
		return Empty{}, nil
	}
}

func (m *Manager) save(path string, t Todo) (Response, error) {
	if err := m.validate.Struct(t); err != nil {
		m.log.Debug("rejected todo", "error", err)
		return nil, ErrInvalidTodo
	}
	id, err := m.store.Save(path, t)
	if err != nil {
		return nil, m.storeFailed("save", path, err)
	}
	m.log.Debug("saved todo", "id", id)
	return Done{}, nil
}

func (m *Manager) storeFailed(op, path string, err error) error {
	m.log.Warn("store operation failed", "op", op, "path", path, "error", err)
	return ErrStoreUnavailable
}
