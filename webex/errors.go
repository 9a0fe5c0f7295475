package webex

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jim-barber-he/aa-greeting/util"
)

// APIError is returned for any response with a non-2xx status.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	TrackingID string
	Body       string
}

// Error implements the Error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsUnauthorized reports whether err is an API error with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// NewReadFileError creates a new error for when an announcement file can't be read.
func NewReadFileError(path string) error {
	return &util.Error{
		Msg:   "failed to read announcement file",
		Param: path,
	}
}

// NewUnsupportedMediaError creates a new error for an announcement file of an unknown media type.
func NewUnsupportedMediaError(path string) error {
	return &util.Error{
		Msg:   "unsupported announcement file type, must be .wav, .wma, or .3gp",
		Param: path,
	}
}

var (
	errBuildRequest    = errors.New("failed to build request")
	errDecodeResponse  = errors.New("failed to decode response")
	errEditConfig      = errors.New("failed to edit auto attendant configuration")
	errMultipart       = errors.New("failed to build multipart body")
	errNoAnnouncement  = errors.New("upload response did not contain an announcement id")
	errRateLimitWait   = errors.New("rate limiter wait aborted")
	errReadResponse    = errors.New("failed to read response body")
	errSendRequest     = errors.New("failed to send request")
	errUnknownMenu     = errors.New("unknown menu")
	errMissingLocation = errors.New("auto attendant has no location id")
)
