package config

import (
	"errors"

	"github.com/jim-barber-he/aa-greeting/util"
)

// ErrConfig is wrapped by every configuration error so callers can treat them as fatal.
var ErrConfig = errors.New("configuration error")

var (
	// ErrMissingToken is returned when neither --token nor WEBEX_TOKEN provide an access token.
	ErrMissingToken = &configError{
		msg: "need to provide an access token using --token or set one in the WEBEX_TOKEN environment variable",
	}

	errBindFlags = errors.New("failed to bind command line flags")
)

// configError is a message that unwraps to ErrConfig.
type configError struct {
	msg string
}

func (e *configError) Error() string { return e.msg }

func (e *configError) Unwrap() error { return ErrConfig }

// NewEnvFileError creates a new error for when the env file exists but can't be loaded.
func NewEnvFileError(path string) error {
	return &util.Error{
		Msg:   "failed to load environment file",
		Param: path,
	}
}

// NewInvalidSettingError creates a new error for a setting with an unusable value.
func NewInvalidSettingError(name, value string) error {
	return &configError{msg: util.NewError("invalid value for "+name, value).Error()}
}
