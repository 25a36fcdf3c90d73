package storage

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnknownBackend is returned by Open for a backend name nothing registered.
var ErrUnknownBackend = errors.New("unknown storage backend")

// OptionError reports a storage option the backend could not use, either because
// it failed to decode or because the backend could not open with it.
type OptionError struct {
	Backend string
	Option  string
	Value   string
	Reason  string
	Err     error
}

func (e *OptionError) Error() string {
	var b strings.Builder
	b.WriteString("storage backend ")
	b.WriteString(e.Backend)
	if e.Option != "" {
		b.WriteString(": option ")
		b.WriteString(e.Option)
		if e.Value != "" {
			b.WriteString("=" + strconv.Quote(e.Value))
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// OpenError wraps a failure to open backend with the given option.
func OpenError(backend, option, reason string, err error) *OptionError {
	return &OptionError{Backend: backend, Option: option, Reason: reason, Err: err}
}
