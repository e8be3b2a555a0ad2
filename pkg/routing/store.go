package routing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store loads and persists a route table.
type Store interface {
	// Load returns the persisted table. A store with nothing persisted
	// yields an empty table.
	Load(ctx context.Context) (*Table, error)

	// Save replaces the persisted table with t.
	Save(ctx context.Context, t *Table) error
}

// FileStore persists a route table as an ordered YAML mapping.
type FileStore struct {
	path string
	perm fs.FileMode
}

// NewFileStore creates a store backed by the YAML file at path.
// The file does not need to exist until the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, perm: 0o644}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the route file. A missing file yields an empty table.
func (s *FileStore) Load(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTable(), nil
		}
		return nil, errors.Join(ErrReadRoutes, err)
	}

	return Decode(data)
}

// Save encodes t and atomically replaces the route file.
func (s *FileStore) Save(ctx context.Context, t *Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(t)
	if err != nil {
		return errors.Join(ErrWriteRoutes, err)
	}

	if err := writeFileAtomic(s.path, data, s.perm); err != nil {
		return errors.Join(ErrWriteRoutes, err)
	}

	return nil
}

// Decode parses an ordered YAML mapping of pattern to target.
// Empty input yields an empty table; anything but a mapping is
// reported as ErrMalformedRoutes.
func Decode(data []byte) (*Table, error) {
	t := NewTable()
	if len(bytes.TrimSpace(data)) == 0 {
		return t, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrMalformedRoutes, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return t, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrMalformedRoutes
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: pattern must be a string", ErrMalformedRoutes, key.Line)
		}

		var target Target
		if err := value.Decode(&target); err != nil {
			return nil, errors.Join(
				fmt.Errorf("%w: pattern %q", ErrMalformedRoutes, key.Value),
				err,
			)
		}

		t.Add(key.Value, target)
	}

	return t, nil
}

// Encode renders t as an ordered YAML mapping.
func Encode(t *Table) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, r := range t.Routes() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Pattern}

		value := &yaml.Node{}
		if err := value.Encode(r.Target); err != nil {
			return nil, err
		}

		root.Content = append(root.Content, key, value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
