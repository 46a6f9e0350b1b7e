package watcher

import "time"

// Options configures the file watcher behavior.
type Options struct {
	// SettleDelay is the quiet period a new file must survive unchanged
	// before its event is emitted. This is the debounce that keeps the
	// pipeline off files still being written.
	SettleDelay time.Duration
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = time.Second
	}
}
