package todo

// Todo is a single todo record. ID stays nil until the store assigns one.
type Todo struct {
	ID       *int64  `json:"id"`
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content"`
	UserName *string `json:"user_name"`
}

// NewTodo builds an unsaved todo owned by the default user.
func NewTodo(title, content string) Todo {
	return Todo{Title: title, Content: content}
}

// Action is a requested CRUD operation. The set of actions is closed.
type Action interface {
	action()
}

// Save persists a new todo.
type Save struct{ Todo Todo }

// FetchAll lists every todo.
type FetchAll struct{}

// FetchByID looks up a single todo.
type FetchByID struct{ ID int64 }

// DeleteAll removes every todo.
type DeleteAll struct{}

// DeleteByID removes a single todo.
type DeleteByID struct{ ID int64 }

func (Save) action()       {}
func (FetchAll) action()   {}
func (FetchByID) action()  {}
func (DeleteAll) action()  {}
func (DeleteByID) action() {}

// SetupAction is a request handled by Manager.Setup.
type SetupAction int

const (
	// Init creates the config file, writes the settings and creates the store.
	Init SetupAction = iota
	// Test checks an initialized store.
	Test
)

func (a SetupAction) String() string {
	switch a {
	case Init:
		return "init"
	case Test:
		return "test"
	default:
		return "unknown"
	}
}

// Response is the outcome of a successful action or setup. The set is closed.
type Response interface {
	response()
}

// Done reports a completed side effect.
type Done struct{}

// One carries a zero-or-one lookup result.
type One struct{ Todo *Todo }

// All carries a full listing.
type All struct{ Todos []Todo }

// Empty is returned when there is nothing meaningful to report.
type Empty struct{}

func (Done) response()  {}
func (One) response()   {}
func (All) response()   {}
func (Empty) response() {}
