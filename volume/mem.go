package volume

import (
	"fmt"
	"os"
	"sync"
)

// memFile tracks the three views a FAT-style medium has of one file:
// bytes written by the host, bytes whose data blocks reached the medium,
// and the length recorded in the directory entry. A reader that mounts
// the card after an abrupt power cut sees only the directory length.
type memFile struct {
	data   []byte
	synced int // data bytes on the medium
	length int // length committed to the directory entry
}

// Mem is an in-memory Volume simulating an SD card with deferred
// directory updates: Write buffers, Sync commits data blocks only,
// Close additionally commits the directory entry. It exists so
// durability behavior can be tested without hardware.
type Mem struct {
	mu    sync.Mutex
	files map[string]*memFile
	opens map[string]int
}

// NewMem returns an empty in-memory volume.
func NewMem() *Mem {
	return &Mem{
		files: make(map[string]*memFile),
		opens: make(map[string]int),
	}
}

// Exists implements Volume.
func (m *Mem) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

// OpenAppend implements Volume.
func (m *Mem) OpenAppend(name string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[name]
	if !ok {
		f = &memFile{}
		m.files[name] = f
	}
	m.opens[name]++
	return &memHandle{vol: m, f: f}, nil
}

// Touch creates an empty file entry, as if a previous power cycle had
// left it behind.
func (m *Mem) Touch(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		m.files[name] = &memFile{}
	}
}

// Contents returns the file as a reader on the still-mounted volume
// would see it, including bytes not yet durable.
func (m *Mem) Contents(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[name]
	if !ok {
		return nil
	}
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out
}

// Committed returns the bytes that survive an abrupt power cut: data
// blocks on the medium, capped at the directory-entry length.
func (m *Mem) Committed(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[name]
	if !ok {
		return nil
	}
	n := f.length
	if f.synced < n {
		n = f.synced
	}
	out := make([]byte, n)
	copy(out, f.data[:n])
	return out
}

// OpenCount reports how many times a name has been opened for append.
func (m *Mem) OpenCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens[name]
}

type memHandle struct {
	vol    *Mem
	f      *memFile
	closed bool
}

func (h *memHandle) Write(p []byte) (int, error) {
	h.vol.mu.Lock()
	defer h.vol.mu.Unlock()
	if h.closed {
		return 0, fmt.Errorf("mem volume: %w", os.ErrClosed)
	}
	h.f.data = append(h.f.data, p...)
	return len(p), nil
}

func (h *memHandle) Sync() error {
	h.vol.mu.Lock()
	defer h.vol.mu.Unlock()
	if h.closed {
		return fmt.Errorf("mem volume: %w", os.ErrClosed)
	}
	h.f.synced = len(h.f.data)
	return nil
}

func (h *memHandle) Close() error {
	h.vol.mu.Lock()
	defer h.vol.mu.Unlock()
	if h.closed {
		return fmt.Errorf("mem volume: %w", os.ErrClosed)
	}
	h.closed = true
	h.f.synced = len(h.f.data)
	h.f.length = len(h.f.data)
	return nil
}

var _ Volume = (*Mem)(nil)
