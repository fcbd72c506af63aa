// Package logging constructs the application logger. The TUI owns the
// terminal, so logs go to a file; an empty path yields a no-op logger.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Open creates a file-backed logger at path. Failure paths in the core log
// through this and are otherwise swallowed, so a nil-safe no-op logger is
// returned when path is empty.
func Open(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return cfg.Build()
}
