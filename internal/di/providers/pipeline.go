package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/dropsort/dropsort/internal/config"
	"github.com/dropsort/dropsort/internal/logger"
	"github.com/dropsort/dropsort/internal/organizer"
	"github.com/dropsort/dropsort/internal/rules"
	"github.com/dropsort/dropsort/internal/watcher"
)

// ProvideOrganizer provides the pipeline and runs its bootstrap: every
// category directory must exist before the watcher delivers a single event.
// A bootstrap failure propagates out of DI and is fatal to the process.
func ProvideOrganizer(i do.Injector) (*organizer.Organizer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	ruleset := do.MustInvoke[rules.Ruleset](i)
	journalHandle := do.MustInvoke[*JournalHandle](i)

	org := organizer.New(cfg.Watch.Root, ruleset, journalHandle.Journal, log.Logger)

	if err := org.Bootstrap(context.Background()); err != nil {
		return nil, err
	}

	log.Info("Category directories provisioned", "root", cfg.Watch.Root)
	return org, nil
}

// WatcherPumpHandle wraps the watcher and its event pump with shutdown capability.
type WatcherPumpHandle struct {
	Watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *WatcherPumpHandle) Shutdown() error {
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideWatcherPump provides the filesystem watcher and the goroutine that
// feeds its events through the organizer. Events are processed one at a time;
// debouncing already happened inside the watcher, so a slow move never delays
// event delivery, only processing of later events.
func ProvideWatcherPump(i do.Injector) (*WatcherPumpHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	org := do.MustInvoke[*organizer.Organizer](i)

	w, err := watcher.New(log.Logger, watcher.Options{SettleDelay: cfg.Watch.SettleDelay})
	if err != nil {
		return nil, err
	}

	if err := w.Watch(cfg.Watch.Root); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("File watcher error", "error", err)
		}
	}()

	// Per-event failures are contained here: logged, then the next event is
	// served. Nothing an event does may stop this loop short of shutdown.
	go func() {
		for {
			select {
			case event, ok := <-w.Events():
				if !ok {
					return
				}
				if err := org.Process(ctx, event); err != nil {
					log.Error("event processing failed",
						"path", event.Path,
						"error", err,
					)
				}
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.Warn("file watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("File watcher started", "root", cfg.Watch.Root)

	return &WatcherPumpHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}
