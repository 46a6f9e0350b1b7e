// Package di provides dependency injection configuration for the dropsort daemon.
package di

import (
	"github.com/samber/do/v2"

	"github.com/dropsort/dropsort/internal/config"
	"github.com/dropsort/dropsort/internal/di/providers"
	"github.com/dropsort/dropsort/internal/logger"
	"github.com/dropsort/dropsort/internal/organizer"
	"github.com/dropsort/dropsort/internal/rules"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideRuleset)

	// Persistence
	do.Provide(injector, providers.ProvideJournal)

	// Pipeline
	do.Provide(injector, providers.ProvideOrganizer)
	do.Provide(injector, providers.ProvideWatcherPump)

	return injector
}

// Bootstrap initializes all services in dependency order. A returned error
// means the daemon cannot run (e.g. category directories could not be
// provisioned) and the process should exit non-zero.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[rules.Ruleset](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.JournalHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*organizer.Organizer](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.WatcherPumpHandle](injector); err != nil {
		return err
	}
	return nil
}
