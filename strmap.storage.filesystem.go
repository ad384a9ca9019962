package strmap

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FilesystemStore keeps one YAML document per definition:
//
//	<root>/
//	  order-line.yaml
//	  tenant-page.yaml
//
// Files can be edited by hand; the store only requires the name inside the
// file to match the file name.
type FilesystemStore struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// Filesystem storage error messages
const (
	ErrMsgInvalidStoreRoot      = "invalid store root directory"
	ErrMsgCreateStoreDir        = "failed to create store directory"
	ErrMsgReadStoreDir          = "failed to read store directory"
	ErrMsgPathTraversalDetected = "path traversal detected in template name"
	ErrMsgNameMismatch          = "template name does not match file name"
	ErrMsgDecodeTemplate        = "failed to decode template file"
	ErrMsgEncodeTemplate        = "failed to encode template file"
)

// FilesystemStoreDriver is the driver for creating FilesystemStore instances.
type FilesystemStoreDriver struct{}

func init() {
	RegisterStoreDriver(StorageDriverNameFilesystem, &FilesystemStoreDriver{})
}

// Open creates a new FilesystemStore. The connection string is the root directory.
func (d *FilesystemStoreDriver) Open(connectionString string) (TemplateStore, error) {
	return NewFilesystemStore(connectionString)
}

// NewFilesystemStore creates a filesystem-backed store rooted at root,
// creating the directory if needed.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStoreRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{Message: ErrMsgCreateStoreDir, Name: root, Cause: err}
	}
	return &FilesystemStore{root: root}, nil
}

// Get retrieves a definition by name.
func (s *FilesystemStore) Get(ctx context.Context, name string) (*TemplateDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateTemplateNameForFilesystem(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}
	return s.load(name)
}

// Put writes a definition, replacing any previous file for the same name.
func (s *FilesystemStore) Put(ctx context.Context, def *TemplateDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if def == nil {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}
	if err := validateTemplateNameForFilesystem(def.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	existing, err := s.load(def.Name)
	if err != nil && !IsNotFound(err) {
		return err
	}
	stampDefinition(def, existing, time.Now().UTC())

	data, err := yaml.Marshal(def)
	if err != nil {
		return &StorageError{Message: ErrMsgEncodeTemplate, Name: def.Name, Cause: err}
	}

	// write then rename so readers never see a half-written file
	path := s.path(def.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgStoreWrite, Name: def.Name, Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &StorageError{Message: ErrMsgStoreWrite, Name: def.Name, Cause: err}
	}
	return nil
}

// Delete removes a definition file.
func (s *FilesystemStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateTemplateNameForFilesystem(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTemplateNotFoundError(name)
		}
		return &StorageError{Message: ErrMsgStoreWrite, Name: name, Cause: err}
	}
	return nil
}

// List returns definitions matching query, ordered by name.
func (s *FilesystemStore) List(ctx context.Context, query *TemplateQuery) ([]*TemplateDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStoreDir, Name: s.root, Cause: err}
	}

	out := make([]*TemplateDefinition, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, ok := strings.CutSuffix(entry.Name(), FilesystemFileExtension)
		if entry.IsDir() || !ok {
			continue
		}
		def, err := s.load(name)
		if err != nil {
			return nil, err
		}
		if query.matches(def) {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return applyLimit(out, query), nil
}

// Exists checks whether a definition file exists.
func (s *FilesystemStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateTemplateNameForFilesystem(name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}

	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &StorageError{Message: ErrMsgStoreRead, Name: name, Cause: err}
}

// Close marks the store closed. Files are left in place.
func (s *FilesystemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FilesystemStore) path(name string) string {
	return filepath.Join(s.root, name+FilesystemFileExtension)
}

// load reads and decodes one definition; callers hold the lock
func (s *FilesystemStore) load(name string) (*TemplateDefinition, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewTemplateNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgStoreRead, Name: name, Cause: err}
	}

	var def TemplateDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &StorageError{Message: ErrMsgDecodeTemplate, Name: name, Cause: err}
	}
	if def.Name == "" {
		def.Name = name
	}
	if def.Name != name {
		return nil, &StorageError{Message: ErrMsgNameMismatch, Name: name}
	}
	return &def, nil
}

// validateTemplateNameForFilesystem rejects names that would escape the root
// directory or are not valid file names.
func validateTemplateNameForFilesystem(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}
	if strings.Contains(name, "..") {
		return &StorageError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return &StorageError{Message: ErrMsgInvalidTemplateName, Name: name}
	}
	return nil
}
