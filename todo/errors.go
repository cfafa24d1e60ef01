package todo

import "errors"

// Kind identifies an error category.
type Kind string

// Error kinds.
const (
	KindInitNotAvailable   Kind = "INIT_NOT_AVAILABLE"
	KindUnableToInitialize Kind = "UNABLE_TO_INITIALIZE"
	KindTestFailed         Kind = "TEST_FAILED"
	KindRecordNotFound     Kind = "RECORD_NOT_FOUND"
	KindStoreUnavailable   Kind = "STORE_UNAVAILABLE"
	KindInvalidTodo        Kind = "INVALID_TODO"
)

// Error is a categorized failure with a fixed user-facing message.
// It records only the category; causes are logged where they occur.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinel errors for use with errors.Is.
var (
	ErrInitNotAvailable   = &Error{Kind: KindInitNotAvailable, Message: "Please initialize application, use help"}
	ErrUnableToInitialize = &Error{Kind: KindUnableToInitialize, Message: "Unable to initialize application, contact support"}
	ErrTestFailed         = &Error{Kind: KindTestFailed, Message: "Database check has failed"}
	ErrRecordNotFound     = &Error{Kind: KindRecordNotFound, Message: "Record not found"}
	ErrStoreUnavailable   = &Error{Kind: KindStoreUnavailable, Message: "Db store is not found, please setup application"}
	ErrInvalidTodo        = &Error{Kind: KindInvalidTodo, Message: "Todo title is required"}
)
