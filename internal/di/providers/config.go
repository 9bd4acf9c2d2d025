package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/episodeo/episodeo-server/internal/config"
	"github.com/episodeo/episodeo-server/internal/logger"
)

// ProvideConfig loads the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the application logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return logger.New(logger.Config{
		Writer:      os.Stdout,
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	}), nil
}
