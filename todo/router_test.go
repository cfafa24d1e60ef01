package todo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initializedManager runs Init in a temp working directory and returns the
// manager with settings loaded back from the config file.
func initializedManager(t *testing.T) (*Manager, Settings) {
	t.Helper()
	m := newTestManager(t, NewSQLiteStore())
	_, err := m.Setup(SystemDefault(), Init)
	require.NoError(t, err)

	settings := m.ResolveSettings("", false)
	require.True(t, settings.IsConfigAvailable())
	return m, settings
}

func fetchAll(t *testing.T, m *Manager, s Settings) []Todo {
	t.Helper()
	resp, err := m.Do(s, FetchAll{})
	require.NoError(t, err)
	all, ok := resp.(All)
	require.True(t, ok, "want All, got %T", resp)
	return all.Todos
}

func TestActionsBeforeInit(t *testing.T) {
	actions := []Action{
		Save{Todo: NewTodo("t", "c")},
		FetchAll{},
		FetchByID{ID: 1},
		DeleteAll{},
		DeleteByID{ID: 1},
	}

	for _, a := range actions {
		store := &fakeStore{}
		m := NewManager(store, NewConfigFile("", discardLogger()), discardLogger())

		_, err := m.Do(SystemDefault(), a)
		assert.True(t, errors.Is(err, ErrInitNotAvailable), "%T", a)
		assert.Empty(t, store.calls, "%T", a)
	}
}

func TestSaveThenFetch(t *testing.T) {
	m, s := initializedManager(t)

	resp, err := m.Do(s, Save{Todo: NewTodo("Buy milk", "2 litres")})
	require.NoError(t, err)
	assert.Equal(t, Done{}, resp)

	todos := fetchAll(t, m, s)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.Equal(t, "2 litres", todos[0].Content)
	require.NotNil(t, todos[0].ID)

	resp, err = m.Do(s, FetchByID{ID: *todos[0].ID})
	require.NoError(t, err)
	one, ok := resp.(One)
	require.True(t, ok)
	require.NotNil(t, one.Todo)
	assert.Equal(t, todos[0], *one.Todo)
}

func TestSaveAssignsFreshIDs(t *testing.T) {
	m, s := initializedManager(t)

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		_, err := m.Do(s, Save{Todo: NewTodo("task", "")})
		require.NoError(t, err)

		todos := fetchAll(t, m, s)
		require.Len(t, todos, i+1)
		newIDs := 0
		for _, td := range todos {
			if !seen[*td.ID] {
				seen[*td.ID] = true
				newIDs++
			}
		}
		assert.Equal(t, 1, newIDs)
	}
}

func TestSaveRejectsEmptyTitle(t *testing.T) {
	m, s := initializedManager(t)

	_, err := m.Do(s, Save{Todo: NewTodo("", "content")})
	assert.True(t, errors.Is(err, ErrInvalidTodo))
	assert.Empty(t, fetchAll(t, m, s))
}

func TestFetchByIDNeverAssigned(t *testing.T) {
	m, s := initializedManager(t)

	resp, err := m.Do(s, FetchByID{ID: 404})
	require.NoError(t, err)
	assert.Equal(t, One{}, resp)
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	m, s := initializedManager(t)

	for _, title := range []string{"a", "b"} {
		_, err := m.Do(s, Save{Todo: NewTodo(title, "")})
		require.NoError(t, err)
	}
	before := fetchAll(t, m, s)
	require.Len(t, before, 2)
	target := *before[0].ID

	for i := 0; i < 2; i++ {
		resp, err := m.Do(s, DeleteByID{ID: target})
		require.NoError(t, err)
		assert.Equal(t, Done{}, resp)
	}
	resp, err := m.Do(s, DeleteByID{ID: 9999})
	require.NoError(t, err)
	assert.Equal(t, Done{}, resp)

	after := fetchAll(t, m, s)
	require.Len(t, after, 1)
	assert.Equal(t, before[1], after[0])
}

func TestDeleteAll(t *testing.T) {
	m, s := initializedManager(t)

	for _, title := range []string{"a", "b", "c"} {
		_, err := m.Do(s, Save{Todo: NewTodo(title, "")})
		require.NoError(t, err)
	}

	resp, err := m.Do(s, DeleteAll{})
	require.NoError(t, err)
	assert.Equal(t, Done{}, resp)
	assert.Empty(t, fetchAll(t, m, s))
}

func TestStoreFailuresAreReported(t *testing.T) {
	actions := []Action{
		Save{Todo: NewTodo("t", "c")},
		FetchAll{},
		FetchByID{ID: 1},
		DeleteAll{},
		DeleteByID{ID: 1},
	}

	m, s := initializedManager(t)
	m.store = &fakeStore{err: errors.New("locked")}

	for _, a := range actions {
		_, err := m.Do(s, a)
		assert.True(t, errors.Is(err, ErrStoreUnavailable), "%T", a)
	}
}

func TestMissingStoreIsUnavailable(t *testing.T) {
	m, s := initializedManager(t)

	// Configured for a db that was never initialized.
	_, err := m.Do(s.Update("other"), FetchAll{})
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.NoFileExists(t, "other.store")
}
