package greeting

import (
	"errors"
	"fmt"

	"github.com/jim-barber-he/aa-greeting/config"
	"github.com/jim-barber-he/aa-greeting/util"
)

var (
	// ErrUpload aborts a run: no attendant can be updated without the announcement.
	ErrUpload = errors.New("failed to upload greeting")
	// ErrUpdate is recorded against a single attendant; the run carries on with the others.
	ErrUpdate = errors.New("failed to update auto attendant")
	// ErrNoMatch is returned when none of the name specs matched an Auto Attendant.
	ErrNoMatch = errors.New("no auto attendants found")

	errListAttendants = errors.New("failed to list auto attendants")
	errListLocations  = errors.New("failed to list locations")
	errWhoAmI         = errors.New("failed to look up the token owner")

	// errInvalidToken is returned when the API rejects the access token.
	errInvalidToken = newUsageError("invalid token", `got "Unauthorized" when trying to look up the token owner`)
)

// usageError is an invalid argument. It unwraps to config.ErrConfig so it is treated as fatal.
type usageError struct {
	err *util.Error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return config.ErrConfig }

func newUsageError(msg, param string) *usageError {
	return &usageError{err: util.NewError(msg, param)}
}

// NewInvalidMenuError creates a new error for a menu other than business or after_hours.
func NewInvalidMenuError(menu string) error {
	return newUsageError(`menu must be "business" or "after_hours"`, menu)
}

// NewInvalidSpecError creates a new error for a malformed Auto Attendant name spec.
func NewInvalidSpecError(spec string) error {
	return newUsageError("invalid auto attendant spec", spec)
}

// NewInvalidPatternError creates a new error for a name spec that isn't a valid regular expression.
func NewInvalidPatternError(spec string, err error) error {
	return fmt.Errorf("%w: %w", newUsageError("invalid auto attendant spec", spec), err)
}

// NewGreetingFileError creates a new error for a greeting file that can't be used.
func NewGreetingFileError(path string, err error) error {
	return fmt.Errorf("%w: %w", newUsageError("greeting file not usable", path), err)
}

// NoMatchWarning reports a name spec that matched no Auto Attendant. It is logged, not returned.
type NoMatchWarning struct {
	Spec            NameSpec
	UnknownLocation bool
}

// Error implements the Error interface so the warning can be logged as one.
func (w *NoMatchWarning) Error() string {
	if w.UnknownLocation {
		return fmt.Sprintf("location not found: %q (spec %q)", w.Spec.Location, w.Spec.Raw)
	}
	return fmt.Sprintf("no auto attendant matches %q", w.Spec.Raw)
}
