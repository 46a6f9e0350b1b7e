// Package providers contains dependency injection providers for the dropsort daemon.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/dropsort/dropsort/internal/config"
	"github.com/dropsort/dropsort/internal/logger"
	"github.com/dropsort/dropsort/internal/rules"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting dropsort",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"watch_root", cfg.Watch.Root,
		"settle_delay", cfg.Watch.SettleDelay,
	)

	return log, nil
}

// ProvideRuleset provides the classification ruleset: either the built-in
// table or a YAML rules file when one is configured.
func ProvideRuleset(i do.Injector) (rules.Ruleset, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Rules.Path == "" {
		return rules.Default(), nil
	}

	rs, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, err
	}

	log.Info("Loaded rules file", "path", cfg.Rules.Path, "rules", len(rs))
	return rs, nil
}
