// Package artifact persists opaque blobs, used for trained predictor state.
package artifact

import (
	"os"
	"path/filepath"
)

type Store interface {
	Write(name string, blob []byte) error
	Read(name string) ([]byte, error)
}

// FileStore keeps artifacts as files under a root directory. Writes go to a
// temp file and rename into place so readers never see a partial blob.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) Write(name string, blob []byte) error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return err
	}
	path := filepath.Join(s.root, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, name))
}
