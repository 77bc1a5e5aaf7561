package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// jsonFile is the shared read/write layer for the file-backed
// repositories: one pretty-printed JSON array per aggregate type, the
// file created on first use. Single logical writer assumed, matching
// the port contract.
type jsonFile struct {
	path string
}

func newJSONFile(path string) (*jsonFile, error) {
	f := &jsonFile{path: path}
	if err := f.ensure(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *jsonFile) ensure() error {
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte("[]\n"), 0o644); err != nil {
		return fmt.Errorf("init %s: %w", f.path, err)
	}
	return nil
}

func (f *jsonFile) load(v any) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	return nil
}

func (f *jsonFile) persist(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
