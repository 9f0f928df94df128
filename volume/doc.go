// Package volume abstracts the storage medium a flight recorder writes to.
//
// The package defines two interfaces:
//
//   - [File]: an open append stream with write/sync/close
//   - [Volume]: existence checks and append-mode opens
//
// # Implementations
//
//   - [Local]: production implementation over a host directory
//   - [Mem]: in-memory simulated SD card with FAT-style deferred
//     directory updates, for tests and simulation
//   - [Faulty]: fault-injection wrapper (failed opens, short writes,
//     sync/close errors)
//
// On the target device this package is replaced by a thin shim over the
// platform's card driver; the recorder only depends on the interfaces.
//
// # Design Notes
//
// Operations intentionally take no context.Context. The medium is a
// directly attached card with bounded-latency operations and no
// meaningful cancellation at the driver level; a hang is an unrecovered
// fault by contract.
package volume
