// Package flightlog implements a power-loss-resilient, fixed-rate
// flight data logger for sequential storage media.
//
// Each power cycle the recorder allocates a fresh log identity
// (/flight_log_001.csv, _002, ...), opens it for append, writes a CSV
// header and then samples at a fixed cadence, default 20 Hz. Once per
// barrier interval, default 1 s, it runs a durability barrier: the file
// is closed and immediately reopened in append mode, forcing FAT-style
// media to commit both data blocks and directory metadata. Worst-case
// loss on an abrupt power cut is therefore bounded by one barrier
// interval, and previously committed records are never corrupted.
//
// # Quick Start
//
//	vol, _ := volume.NewLocal("./data")
//	rec, _ := flightlog.New(vol,
//	    flightlog.WithSamplingFrequency(20),
//	    flightlog.WithBarrierInterval(time.Second),
//	    flightlog.WithLogLevel(slog.LevelInfo),
//	)
//	err := rec.Run(ctx)
//
// # Power-loss handling
//
// Emergency shutdown is interrupt-shaped: a SenseLine delivers the
// power rail's falling edge, the handler's entire job is setting one
// atomic flag, and the loop performs the actual close on its next
// iteration. No other state crosses the asynchronous boundary. After a
// fatal failure or an orderly close the recorder is halted for good;
// like the device it models, it takes a power cycle, i.e. a new
// Recorder, to start again.
//
// Sensor acquisition is out of scope; a Sensor collaborator supplies
// readings, and the built-in SimSensor stands in with pseudo-random
// values.
package flightlog
