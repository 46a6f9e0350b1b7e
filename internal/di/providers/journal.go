package providers

import (
	"github.com/samber/do/v2"

	"github.com/dropsort/dropsort/internal/config"
	"github.com/dropsort/dropsort/internal/journal"
	"github.com/dropsort/dropsort/internal/logger"
)

// JournalHandle wraps the move journal with shutdown capability.
// Journal is nil when the journal is disabled; that nil is a valid no-op
// recorder all the way down.
type JournalHandle struct {
	Journal *journal.Journal
}

// Shutdown implements do.Shutdownable.
func (h *JournalHandle) Shutdown() error {
	return h.Journal.Close()
}

// ProvideJournal provides the move-history journal.
func ProvideJournal(i do.Injector) (*JournalHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Journal.Enabled {
		log.Info("Move journal disabled")
		return &JournalHandle{}, nil
	}

	jrnl, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}

	log.Info("Move journal opened", "path", cfg.Journal.Path)
	return &JournalHandle{Journal: jrnl}, nil
}
