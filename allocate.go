package flightlog

import (
	"fmt"

	"github.com/hupe1980/flightlog/volume"
)

const (
	logNamePrefix = "/flight_log_"
	logNameSuffix = ".csv"

	// MaxSequence bounds per-power-cycle log numbering.
	MaxSequence = 999
)

// logName formats the canonical name for a sequence number, zero-padded
// to three digits.
func logName(seq int) string {
	return fmt.Sprintf("%s%03d%s", logNamePrefix, seq, logNameSuffix)
}

// nextLogName scans the volume root for the lowest unused sequence
// number. Runs once at startup, single-threaded; no concurrent
// allocation is defended against. With the whole range taken it
// deterministically reuses sequence 1 — a degraded mode the caller
// surfaces as a warning, not an error.
func nextLogName(vol volume.Volume) (name string, exhausted bool) {
	for seq := 1; seq <= MaxSequence; seq++ {
		name = logName(seq)
		if !vol.Exists(name) {
			return name, false
		}
	}
	return logName(1), true
}
