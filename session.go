package flightlog

import (
	"github.com/hupe1980/flightlog/volume"
)

// Session owns the append handle for one log file. It is created once
// per power cycle and mutated only by the recorder's loop goroutine;
// nothing here is safe for concurrent use.
type Session struct {
	vol  volume.Volume
	name string
	file volume.File
	open bool
	buf  []byte // reused line buffer
}

// openSession opens name for append, writes the header row and runs one
// durability barrier so the header survives a power cut arriving before
// the first sample. Any failure is fatal: a volume that rejects the
// header rejects everything after it.
func openSession(vol volume.Volume, name string, fields []string) (*Session, error) {
	f, err := vol.OpenAppend(name)
	if err != nil {
		return nil, &OpenError{Name: name, cause: err}
	}
	s := &Session{vol: vol, name: name, file: f, open: true}
	if _, err := f.Write(headerLine(fields)); err != nil {
		s.Terminate()
		return nil, &OpenError{Name: name, cause: err}
	}
	if err := s.Barrier(); err != nil {
		return nil, &OpenError{Name: name, cause: err}
	}
	return s, nil
}

// Name returns the log filename this session appends to.
func (s *Session) Name() string { return s.name }

// IsOpen reports whether the session still accepts appends.
func (s *Session) IsOpen() bool { return s.open }

// Append writes one record without forcing durability; the periodic
// barrier owns that.
func (s *Session) Append(rec Record) error {
	if !s.open {
		return ErrSessionClosed
	}
	s.buf = appendCSV(s.buf[:0], rec)
	_, err := s.file.Write(s.buf)
	return err
}

// Barrier commits buffered data AND file metadata by closing the handle
// and immediately reopening it in append mode. A plain Sync would leave
// the directory entry stale on FAT-style media; the close is what forces
// it out. On reopen failure the session stays closed and callers must
// stop appending; bytes committed by the close are unaffected.
func (s *Session) Barrier() error {
	if !s.open {
		return ErrSessionClosed
	}
	_ = s.file.Close()
	s.file = nil
	s.open = false
	f, err := s.vol.OpenAppend(s.name)
	if err != nil {
		return &BarrierError{Name: s.name, cause: err}
	}
	s.file = f
	s.open = true
	return nil
}

// Terminate closes the session unconditionally and permanently. Safe to
// call on an already failed or terminated session.
func (s *Session) Terminate() {
	if !s.open {
		return
	}
	_ = s.file.Close()
	s.file = nil
	s.open = false
}
