package runlog

import (
	"github.com/jim-barber-he/aa-greeting/util"
)

// NewOpenLogError creates a new error for when the run log file can't be opened.
func NewOpenLogError(path string) error {
	return &util.Error{
		Msg:   "failed to open run log",
		Param: path,
	}
}
