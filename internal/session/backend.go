package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend is a key/value location for one scope.
//
// Load reports found=false with a nil error when the key is absent.
// Remove of an absent key is not an error.
type Backend interface {
	Load(key string) (data []byte, found bool, err error)
	Save(key string, data []byte) error
	Remove(key string) error
}

// FileBackend stores each key as <dir>/<key>.json with mode 0600.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a backend rooted at dir. The directory is created
// with mode 0700 on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Dir returns the directory the backend writes to.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Path returns the file that holds key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Load reads the record for key.
func (b *FileBackend) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", b.Path(key), err)
	}
	return data, true, nil
}

// Save writes data through a temporary file and renames it into place, so a
// reader never observes a half-written record.
func (b *FileBackend) Save(key string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", b.dir, err)
	}

	tmp, err := os.CreateTemp(b.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", b.dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, b.Path(key)); err != nil {
		return fmt.Errorf("renaming session file into %s: %w", b.Path(key), err)
	}
	return nil
}

// Remove deletes the record for key.
func (b *FileBackend) Remove(key string) error {
	if err := os.Remove(b.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", b.Path(key), err)
	}
	return nil
}

// MemoryBackend keeps records in process memory. It backs tests and the
// ephemeral scope on platforms without a per-login runtime directory.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string][]byte)}
}

// Load returns a copy of the stored bytes.
func (m *MemoryBackend) Load(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Save stores a copy of data under key.
func (m *MemoryBackend) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), data...)
	return nil
}

// Remove deletes key.
func (m *MemoryBackend) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}
