// Package logging builds the application logger. Output goes to a file
// because the terminal belongs to the chat view.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/config"
)

// New returns a production logger at info level, or a development logger at
// debug level when verbose is set.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Verbose {
		zc = zap.NewDevelopmentConfig()
		zc.Level.SetLevel(zap.DebugLevel)
	} else {
		zc = zap.NewProductionConfig()
		zc.Level.SetLevel(zap.InfoLevel)
	}
	out := "stderr"
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		out = cfg.File
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}
	zc.InitialFields = map[string]interface{}{"service": "catchai"}
	return zc.Build()
}
