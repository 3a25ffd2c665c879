package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/yanun0323/errors"
)

// Keyring persists the bearer token across process restarts.
type Keyring interface {
	Read() (string, error)
	Write(token string) error
	Clear() error
}

// FileKeyring stores the token in a single file, the durable-key
// equivalent of browser local storage.
type FileKeyring struct {
	path string
}

// NewFileKeyring creates a keyring rooted at path.
func NewFileKeyring(path string) *FileKeyring {
	return &FileKeyring{path: path}
}

func (k *FileKeyring) Read() (string, error) {
	data, err := os.ReadFile(k.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "read token file")
	}
	return strings.TrimSpace(string(data)), nil
}

func (k *FileKeyring) Write(token string) error {
	if dir := filepath.Dir(k.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "create token dir")
		}
	}
	if err := os.WriteFile(k.path, []byte(token), 0o600); err != nil {
		return errors.Wrap(err, "write token file")
	}
	return nil
}

func (k *FileKeyring) Clear() error {
	if err := os.Remove(k.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove token file")
	}
	return nil
}
