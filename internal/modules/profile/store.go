// README: Profile store backed by a JSON file under the user's home directory.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName  = ".atlas"
	fileName = "user_profile.json"
)

// Store reads and writes a single profile file. A missing file is not
// an error; Load returns defaults so first-run works without setup.
type Store struct {
	path string
}

// NewStore places the profile under dir, or under ~/.atlas when dir is
// empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (UserProfile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return UserProfile{}, fmt.Errorf("read profile: %w", err)
	}
	var p UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return UserProfile{}, fmt.Errorf("decode profile %s: %w", s.path, err)
	}
	return p, nil
}

// Save overwrites the whole file. Writes go through a temp file in the
// same directory so a crash mid-write cannot truncate the profile.
func (s *Store) Save(p UserProfile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}
