// Package trace provides a run-scoped debug tracer. Components receive a
// Tracer explicitly instead of consulting process-wide flags, so one design
// run can be verbose while another stays quiet.
package trace

import (
	"io"
	"log"
	"os"
)

// Tracer gates debug output for a single run. The zero value and the nil
// pointer are both silent, matching how agent debug logging is gated
// elsewhere in the codebase.
type Tracer struct {
	enabled bool
	logger  *log.Logger
}

// New returns a tracer writing to stderr when enabled.
func New(enabled bool) *Tracer {
	return NewWithWriter(enabled, os.Stderr)
}

// NewWithWriter returns a tracer writing to w when enabled.
func NewWithWriter(enabled bool, w io.Writer) *Tracer {
	return &Tracer{
		enabled: enabled,
		logger:  log.New(w, "", log.LstdFlags),
	}
}

// Enabled reports whether trace output is active.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Tracef logs a formatted message under a component tag.
func (t *Tracer) Tracef(component, format string, args ...interface{}) {
	if !t.Enabled() {
		return
	}
	t.logger.Printf("["+component+"] "+format, args...)
}
