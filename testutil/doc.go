// Package testutil provides testing utilities for flightlog.
//
// This package is intended for use in tests and host-side simulation
// only. Its centerpiece is [ManualClock], a virtual clock implementing
// the recorder's Clock interface so scheduling behavior can be verified
// tick-exactly:
//
//	clk := testutil.NewManualClock(time.Unix(0, 0))
//	clk.AfterFunc(1275*time.Millisecond, rec.Shutdown)
//	rec.Run(ctx) // driven entirely by virtual time
package testutil
