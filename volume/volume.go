package volume

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File is an open append stream on a volume.
type File interface {
	io.WriteCloser

	// Sync pushes buffered data blocks to the medium. On media with
	// deferred directory updates (FAT-style cards) it does NOT commit
	// file metadata; only Close guarantees that. This asymmetry is the
	// reason the recorder's durability barrier is a close+reopen pair
	// rather than a plain Sync.
	Sync() error
}

// Volume is the capability set the recorder needs from a storage medium:
// existence checks and append-mode opens. Everything else (mounting,
// wear leveling, directory tooling) belongs to the platform layer.
type Volume interface {
	Exists(name string) bool
	OpenAppend(name string) (File, error)
}

// Local implements Volume on top of a host directory using the os package.
// Volume names are rooted ("/flight_log_001.csv") and resolved under Root.
type Local struct {
	Root string
}

// NewLocal creates the root directory if needed and returns a Local volume.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Local{Root: root}, nil
}

func (l *Local) path(name string) string {
	return filepath.Join(l.Root, strings.TrimPrefix(name, "/"))
}

// Exists implements Volume.
func (l *Local) Exists(name string) bool {
	_, err := os.Stat(l.path(name))
	return err == nil
}

// OpenAppend implements Volume.
func (l *Local) OpenAppend(name string) (File, error) {
	return os.OpenFile(l.path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

var _ Volume = (*Local)(nil)
