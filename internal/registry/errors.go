package registry

import (
	"errors"
	"fmt"
)

// Kind groups registry errors by the class of failure.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindCapacity      Kind = "capacity"
	KindNotFound      Kind = "not_found"
)

// Error is a caller-visible registry failure. Every validation, authorization and
// configuration failure is reported as one of the sentinel values below; errors.Is
// matches on Code.
type Error struct {
	Code    uint32
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (u%d)", e.Message, e.Code)
}

// Is reports whether target is a registry error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code uint32, kind Kind, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message}
}

var (
	ErrNotAuthorized          = newError(100, KindAuthorization, "not authorized")
	ErrInvalidMaxMembers      = newError(101, KindValidation, "invalid max members")
	ErrInvalidContribAmount   = newError(102, KindValidation, "invalid contribution amount")
	ErrInvalidCycleDuration   = newError(103, KindValidation, "invalid cycle duration")
	ErrInvalidPenaltyRate     = newError(104, KindValidation, "invalid penalty rate")
	ErrInvalidVotingThreshold = newError(105, KindValidation, "invalid voting threshold")
	ErrGroupAlreadyExists     = newError(106, KindConflict, "group already exists")
	ErrNotFound               = newError(107, KindNotFound, "group not found")
	ErrAuthorityNotVerified   = newError(109, KindConfiguration, "authority contract not configured")
	ErrInvalidMinContrib      = newError(110, KindValidation, "invalid minimum contribution")
	ErrInvalidMaxLoan         = newError(111, KindValidation, "invalid maximum loan")
	ErrInvalidParam           = newError(112, KindValidation, "invalid update parameter")
	ErrInvalidNameParam       = newError(113, KindValidation, "invalid group name")
	ErrMaxGroupsExceeded      = newError(114, KindCapacity, "maximum number of groups reached")
	ErrInvalidGroupType       = newError(115, KindValidation, "invalid group type")
	ErrInvalidInterestRate    = newError(116, KindValidation, "invalid interest rate")
	ErrInvalidGracePeriod     = newError(117, KindValidation, "invalid grace period")
	ErrInvalidLocation        = newError(118, KindValidation, "invalid location")
	ErrInvalidCurrency        = newError(119, KindValidation, "invalid currency")
	ErrInvalidAuthority       = newError(120, KindConfiguration, "invalid authority contract")
	ErrAlreadyConfigured      = newError(121, KindConfiguration, "authority contract already set")
	ErrNotConfigured          = newError(122, KindConfiguration, "authority contract not set")
	ErrNameCollision          = newError(123, KindConflict, "group name already in use")
)

// AsError returns the registry error carried by err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
