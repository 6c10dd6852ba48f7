package utils

import (
	"os"

	"github.com/mpapenbr/f1-pitstrategy-go/log"
	"github.com/mpapenbr/f1-pitstrategy-go/pkg/config"
)

// SetupLogger creates the default logger from the resolved CLI config.
func SetupLogger() (*log.Logger, error) {
	cfg := &log.Config{
		Level:  config.LogLevel,
		Format: config.LogFormat,
	}
	if config.LogConfig != "" {
		rules, err := os.ReadFile(config.LogConfig)
		if err != nil {
			return nil, err
		}
		cfg.Filters = string(rules)
	}
	return log.New(cfg)
}
