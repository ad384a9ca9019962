package strmap

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of TemplateStore.
// It is intended for tests, catalogs loaded from files and short-lived tools.
type MemoryStore struct {
	mu     sync.RWMutex
	defs   map[string]*TemplateDefinition
	closed bool
}

// MemoryStoreDriver is the driver for creating MemoryStore instances.
type MemoryStoreDriver struct{}

func init() {
	RegisterStoreDriver(StorageDriverNameMemory, &MemoryStoreDriver{})
}

// Open creates a new MemoryStore. The connection string is ignored.
func (d *MemoryStoreDriver) Open(connectionString string) (TemplateStore, error) {
	return NewMemoryStore(), nil
}

// NewMemoryStore creates a new in-memory template store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		defs: make(map[string]*TemplateDefinition),
	}
}

// Get retrieves a definition by name.
func (s *MemoryStore) Get(ctx context.Context, name string) (*TemplateDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	def, ok := s.defs[name]
	if !ok {
		return nil, NewTemplateNotFoundError(name)
	}
	return def.Clone(), nil
}

// Put creates or replaces a definition.
func (s *MemoryStore) Put(ctx context.Context, def *TemplateDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if def == nil || def.Name == "" {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	stampDefinition(def, s.defs[def.Name], time.Now())
	s.defs[def.Name] = def.Clone()
	return nil
}

// Delete removes a definition by name.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if _, ok := s.defs[name]; !ok {
		return NewTemplateNotFoundError(name)
	}
	delete(s.defs, name)
	return nil
}

// List returns definitions matching query, ordered by name.
func (s *MemoryStore) List(ctx context.Context, query *TemplateQuery) ([]*TemplateDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	out := make([]*TemplateDefinition, 0, len(s.defs))
	for _, def := range s.defs {
		if query.matches(def) {
			out = append(out, def.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return applyLimit(out, query), nil
}

// Exists checks whether a definition exists.
func (s *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}

	_, ok := s.defs[name]
	return ok, nil
}

// Close marks the store closed and drops its contents.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.defs = nil
	return nil
}
