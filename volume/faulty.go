package volume

import (
	"fmt"
	"strings"
	"sync"
)

// Fault defines failure behavior for files whose name matches a rule.
type Fault struct {
	OpenLimit      int   // opens allowed before OpenAppend fails; -1 for unlimited
	FailAfterBytes int64 // fail writes after this many bytes to the file; -1 to disable
	FailOnSync     bool
	FailOnClose    bool
	Err            error
}

// Faulty is a Volume wrapper that injects errors, for durability tests.
type Faulty struct {
	Vol     Volume
	Default Fault

	mu    sync.Mutex
	rules map[string]Fault // name substring -> fault
	opens map[string]int
}

// NewFaulty wraps vol (or a fresh Mem if nil) with no faults configured.
func NewFaulty(vol Volume) *Faulty {
	if vol == nil {
		vol = NewMem()
	}
	return &Faulty{
		Vol:     vol,
		Default: Fault{OpenLimit: -1, FailAfterBytes: -1},
		rules:   make(map[string]Fault),
		opens:   make(map[string]int),
	}
}

// AddRule registers a fault for names containing pattern. The last
// matching rule wins.
func (f *Faulty) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *Faulty) faultFor(name string) Fault {
	fault := f.Default
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	if fault.Err == nil {
		fault.Err = fmt.Errorf("injected fault error")
	}
	return fault
}

// Exists implements Volume.
func (f *Faulty) Exists(name string) bool {
	return f.Vol.Exists(name)
}

// OpenAppend implements Volume.
func (f *Faulty) OpenAppend(name string) (File, error) {
	f.mu.Lock()
	fault := f.faultFor(name)
	count := f.opens[name]
	if fault.OpenLimit >= 0 && count >= fault.OpenLimit {
		f.mu.Unlock()
		return nil, fault.Err
	}
	f.opens[name] = count + 1
	f.mu.Unlock()

	file, err := f.Vol.OpenAppend(name)
	if err != nil {
		return nil, err
	}
	return &faultyHandle{File: file, fault: fault}, nil
}

type faultyHandle struct {
	File
	fault   Fault
	written int64
}

func (h *faultyHandle) Write(p []byte) (int, error) {
	if h.fault.FailAfterBytes >= 0 && h.written+int64(len(p)) > h.fault.FailAfterBytes {
		return 0, h.fault.Err
	}
	n, err := h.File.Write(p)
	h.written += int64(n)
	return n, err
}

func (h *faultyHandle) Sync() error {
	if h.fault.FailOnSync {
		return h.fault.Err
	}
	return h.File.Sync()
}

func (h *faultyHandle) Close() error {
	if h.fault.FailOnClose {
		_ = h.File.Close()
		return h.fault.Err
	}
	return h.File.Close()
}

var _ Volume = (*Faulty)(nil)
