// Package organizer relocates newly created files into category directories.
//
// Key design principles:
//   - Each event runs the same fixed sequence: filter, classify, provision,
//     resolve, move, normalize permissions, record.
//   - A failing event is logged and contained; the pipeline keeps serving
//     subsequent events no matter what one file does.
//   - Destination paths are recomputed fresh for every event. Nothing about
//     directory state is cached between events; the filesystem is the only
//     shared state.
package organizer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dropsort/dropsort/internal/errors"
	"github.com/dropsort/dropsort/internal/id"
	"github.com/dropsort/dropsort/internal/journal"
	"github.com/dropsort/dropsort/internal/rules"
	"github.com/dropsort/dropsort/internal/watcher"
)

// Organizer drives the per-event classification-and-move pipeline.
type Organizer struct {
	root    string
	ruleset rules.Ruleset
	journal *journal.Journal // nil when the journal is disabled
	logger  *slog.Logger
}

// New creates an Organizer for the given watch root.
func New(root string, ruleset rules.Ruleset, jrnl *journal.Journal, logger *slog.Logger) *Organizer {
	return &Organizer{
		root:    root,
		ruleset: ruleset,
		journal: jrnl,
		logger:  logger,
	}
}

// Bootstrap pre-creates every category directory under the watch root.
// Category directories are a precondition for any correct move, so the
// caller must treat a Bootstrap failure as fatal.
func (o *Organizer) Bootstrap(ctx context.Context) error {
	for _, category := range o.ruleset.Categories() {
		dir := filepath.Join(o.root, category)
		if err := ensureDir(dir); err != nil {
			return errors.Wrapf(err, errors.CodeProvisioning, "bootstrap category %s", category)
		}
		o.logger.Info("category directory ready", "category", category, "path", dir)
	}

	for ext, categories := range o.ruleset.Overlaps() {
		o.logger.Warn("extension claimed by multiple categories, first match wins",
			"extension", ext,
			"categories", strings.Join(categories, ","),
			"winner", categories[0],
		)
	}

	return nil
}

// Process runs one creation event through the pipeline.
//
// Directory events, vanished sources, hidden files, and extensionless files
// all terminate cleanly with a log line and a nil error. A non-nil return
// means this event failed; it carries a coded error and must never terminate
// the caller's loop.
func (o *Organizer) Process(ctx context.Context, event watcher.Event) error {
	eventID, err := id.Generate("evt")
	if err != nil {
		eventID = "evt-unavailable"
	}
	log := o.logger.With("event_id", eventID, "path", event.Path)

	if event.IsDir {
		log.Info("directory created, ignoring")
		return nil
	}

	log.Info("file detected")

	// The settle delay already passed inside the watcher; re-check that the
	// source survived the gap between emission and processing.
	if _, err := os.Stat(event.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("source vanished before processing")
			return nil
		}
		return errors.Wrapf(err, errors.CodeInternal, "stat source %s", event.Path)
	}

	filename := filepath.Base(event.Path)
	if strings.HasPrefix(filename, ".") {
		log.Info("skipping hidden file", "name", filename)
		return nil
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		log.Info("skipping file without extension", "name", filename)
		return nil
	}

	category := o.ruleset.CategoryFor(ext)
	log.Info("classified file", "name", filename, "extension", ext, "category", category)

	categoryDir := filepath.Join(o.root, category)
	if err := ensureDir(categoryDir); err != nil {
		log.Error("failed to provision category directory", "category", category, "error", err)
		return err
	}

	dest, err := resolveUnique(filepath.Join(categoryDir, filename))
	if err != nil {
		log.Error("failed to resolve destination", "category", category, "error", err)
		return err
	}

	if err := relocate(event.Path, dest); err != nil {
		log.Error("failed to move file", "destination", dest, "error", err)
		return err
	}
	log.Info("moved file", "destination", dest)

	// A chmod failure after a successful move never reverses the move.
	if err := os.Chmod(dest, filePerm); err != nil {
		permErr := errors.Wrapf(err, errors.CodePermissionSet, "chmod %s", dest)
		log.Warn("failed to normalize permissions after move", "destination", dest, "error", permErr)
	}

	if err := o.journal.Record(ctx, journal.MoveRecord{
		EventID:     eventID,
		Source:      event.Path,
		Destination: dest,
		Category:    category,
		MovedAt:     time.Now().UTC(),
	}); err != nil {
		log.Warn("failed to record move in journal", "error", err)
	}

	return nil
}

// Root returns the watch root this organizer serves.
func (o *Organizer) Root() string {
	return o.root
}
