// Package logutil provides loggers for diagnostic output that is not meant for
// the user of the shell. Loggers discard everything until an output is set.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/spf13/afero"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	loggers []*log.Logger
)

// GetLogger returns a logger with the given prefix that follows the output set
// by SetOutput.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects all loggers, including those already created.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	out = w
	for _, logger := range loggers {
		logger.SetOutput(w)
	}
}

// SetOutputFile opens path in append-only mode and redirects all loggers to
// it. An empty path turns logging off. The returned file must be closed by the
// caller; it is nil when path is empty.
func SetOutputFile(fs afero.Fs, path string) (afero.File, error) {
	if path == "" {
		SetOutput(io.Discard)
		return nil, nil
	}
	file, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	SetOutput(file)
	return file, nil
}
