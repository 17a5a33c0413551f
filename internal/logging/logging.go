// Package logging builds the CLI's zap logger from configuration.
package logging

import (
	"go.uber.org/zap"

	"github.com/wippyai/scope/internal/config"
)

// New returns a logger for cfg. debug forces the debug level.
func New(cfg config.LogConfig, debug bool) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level.SetLevel(zap.DebugLevel)
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
