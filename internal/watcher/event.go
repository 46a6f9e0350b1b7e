package watcher

import "time"

// Event is a creation notification for an entry that appeared directly
// inside the watch root. Produced once by the watcher, consumed once by the
// pipeline, then discarded.
type Event struct {
	// Path is the absolute path of the new entry.
	Path string

	// IsDir reports whether the entry is a directory. Directory events are
	// emitted immediately, without settling; the pipeline ignores them.
	IsDir bool

	// Size is the file size in bytes at settle time (zero for directories).
	Size int64

	// ModTime is the entry's last modification time at settle time.
	ModTime time.Time
}
