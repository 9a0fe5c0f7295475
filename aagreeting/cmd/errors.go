package cmd

import "errors"

var errWriteReport = errors.New("failed to write the summary")
