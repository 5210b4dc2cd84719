// Package trace provides sinks for the per-instruction trace records
// emitted by the interpreter cores.
package trace

import (
	"fmt"
	"io"

	"github.com/thelolagemann/chipcore/internal/cpu"
	"github.com/thelolagemann/chipcore/pkg/log"
)

// Writer writes every record as a line of text.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Trace implements the cpu.Tracer interface. Once a write fails
// further records are dropped.
func (w *Writer) Trace(t cpu.Trace) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintln(w.w, t)
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}

// Logger writes every record to a logger at the debug level.
type Logger struct {
	log log.Logger
}

// NewLogger returns a Logger writing to l.
func NewLogger(l log.Logger) *Logger {
	return &Logger{log: l}
}

// Trace implements the cpu.Tracer interface.
func (l *Logger) Trace(t cpu.Trace) {
	l.log.Debugf("%s", t)
}

// Ring keeps the most recent records, to be dumped when a run fails.
type Ring struct {
	records []cpu.Trace
	next    int
	full    bool
}

// NewRing returns a Ring holding up to size records.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{records: make([]cpu.Trace, size)}
}

// Trace implements the cpu.Tracer interface.
func (r *Ring) Trace(t cpu.Trace) {
	r.records[r.next] = t
	r.next++
	if r.next == len(r.records) {
		r.next = 0
		r.full = true
	}
}

// Records returns the kept records, oldest first.
func (r *Ring) Records() []cpu.Trace {
	if !r.full {
		return append([]cpu.Trace(nil), r.records[:r.next]...)
	}
	out := make([]cpu.Trace, 0, len(r.records))
	out = append(out, r.records[r.next:]...)
	return append(out, r.records[:r.next]...)
}

// Dump writes the kept records to w, oldest first.
func (r *Ring) Dump(w io.Writer) error {
	for _, t := range r.Records() {
		if _, err := fmt.Fprintln(w, t); err != nil {
			return err
		}
	}
	return nil
}

// Multi fans every record out to each of its tracers, in order.
type Multi []cpu.Tracer

// Trace implements the cpu.Tracer interface.
func (m Multi) Trace(t cpu.Trace) {
	for _, tracer := range m {
		tracer.Trace(t)
	}
}
