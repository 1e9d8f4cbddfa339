package store

import "fmt"

// ErrDataUnavailable indicates the corpus source is missing or unreadable.
// The engine treats this as a degraded-start condition, not a crash: serving
// continues with an empty store.
type ErrDataUnavailable struct {
	Source  string
	Message string
	Cause   error
}

func (e *ErrDataUnavailable) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corpus unavailable (%s): %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("corpus unavailable (%s): %s", e.Source, e.Message)
}

func (e *ErrDataUnavailable) Unwrap() error {
	return e.Cause
}
