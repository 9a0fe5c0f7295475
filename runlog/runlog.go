/*
Package runlog builds the logger used during an aa-greeting run.

Everything is appended as JSON to a run log file at debug level, so that each API call and its outcome is on record.
A terser copy goes to the console for the operator.
*/
package runlog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileMode = 0o644

// Options controls where the run log goes and how chatty the console is.
type Options struct {
	// Path of the append-only run log. No file is written when empty.
	Path string
	// Console receives human readable output. Defaults to os.Stderr.
	Console io.Writer
	// Debug lowers the console level to debug.
	Debug bool
}

// New returns a logger writing to the run log file and the console, plus a function that flushes and closes the file.
func New(opts Options) (*zap.Logger, func() error, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleLevel := zapcore.InfoLevel
	if opts.Debug {
		consoleLevel = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(), zapcore.Lock(zapcore.AddSync(console)), consoleLevel),
	}

	closeFn := func() error { return nil }

	if opts.Path != "" {
		file, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", NewOpenLogError(opts.Path), err)
		}

		cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.Lock(file), zapcore.DebugLevel))
		closeFn = func() error {
			if err := file.Sync(); err != nil {
				return errors.Join(err, file.Close())
			}
			return file.Close()
		}
	}

	return zap.New(zapcore.NewTee(cores...)), closeFn, nil
}

func fileEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// consoleEncoder prints just the level and message plus any fields; timestamps are in the run log.
func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.NameKey = ""
	cfg.StacktraceKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}
