package main

import (
	"fmt"
	"log/slog"
)

// Diagnostics accumulates structural anomalies found along the way —
// cycles detected during DAG construction, ambiguous segment membership,
// gap-repair batches that failed — without aborting the
// run. Collect, then let the caller decide whether to log, print, or
// ignore.
type Diagnostics struct {
	Warnings []string
}

// NewDiagnostics returns an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Warn records a warning and logs it immediately via slog: collect and
// log in the same motion.
func (d *Diagnostics) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.Warnings = append(d.Warnings, msg)
	slog.Warn("boundary graph diagnostic", "detail", msg)
}

// OK reports whether no diagnostics were recorded.
func (d *Diagnostics) OK() bool {
	return len(d.Warnings) == 0
}

// Print logs a final pass/fail summary.
func (d *Diagnostics) Print() {
	if d.OK() {
		slog.Info("boundary graph diagnostics: none")
		return
	}
	slog.Warn("boundary graph diagnostics recorded", "count", len(d.Warnings))
	for _, w := range d.Warnings {
		slog.Warn("diagnostic", "detail", w)
	}
}
