package common

import (
	"geostore/pkg/common/config"
	"geostore/pkg/common/logger"
)

// Init loads the configuration found in configPath and initializes the
// logger from it.
func Init(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}
	if err := logger.Init(&cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}
