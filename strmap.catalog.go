package strmap

import (
	"context"
	"os"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-strmap/internal"
)

// Catalog error messages
const (
	ErrMsgCatalogRead      = "failed to read catalog file"
	ErrMsgCatalogDecode    = "failed to decode catalog file"
	ErrMsgCatalogDuplicate = "duplicate template name in catalog"
)

// CatalogFile is the YAML layout of a catalog file:
//
//	templates:
//	  - name: order-line
//	    template: "orders/{order:N}/lines/{line}"
//	    fields:
//	      order: uuid
//	      line: int
type CatalogFile struct {
	Templates []*TemplateDefinition `yaml:"templates"`
}

// Catalog serves Record mappers for named template definitions kept in a TemplateStore.
// Mappers are built on first use and rebuilt when the stored definition changes.
type Catalog struct {
	store   TemplateStore
	opts    []Option
	logger  *zap.Logger
	mu      sync.RWMutex
	mappers map[string]catalogEntry
}

type catalogEntry struct {
	updatedAt time.Time
	mapper    *Mapper[Record]
}

// NewCatalog creates a catalog over store. opts are applied to every mapper it builds.
func NewCatalog(store TemplateStore, opts ...Option) *Catalog {
	return &Catalog{
		store:   store,
		opts:    opts,
		logger:  applyOptions(opts).logger,
		mappers: make(map[string]catalogEntry),
	}
}

// ValidateDefinition checks that def has a name, a well-formed template and
// known field types, and that every formatted placeholder can be honored.
func ValidateDefinition(def *TemplateDefinition) error {
	if def == nil || def.Name == "" {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}
	_, err := NewRecordMapper(def.Template, def.Fields)
	return err
}

// Register validates def and stores it, replacing any definition with the same name.
func (c *Catalog) Register(ctx context.Context, def *TemplateDefinition) error {
	if err := ValidateDefinition(def); err != nil {
		return err
	}
	if err := c.store.Put(ctx, def); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.mappers, def.Name)
	c.mu.Unlock()
	return nil
}

// Definition returns the stored definition for name.
func (c *Catalog) Definition(ctx context.Context, name string) (*TemplateDefinition, error) {
	return c.store.Get(ctx, name)
}

// List returns the stored definitions matching query.
func (c *Catalog) List(ctx context.Context, query *TemplateQuery) ([]*TemplateDefinition, error) {
	return c.store.List(ctx, query)
}

// Remove deletes the definition for name.
func (c *Catalog) Remove(ctx context.Context, name string) error {
	if err := c.store.Delete(ctx, name); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.mappers, name)
	c.mu.Unlock()
	return nil
}

// Mapper returns the Record mapper for the definition stored under name.
func (c *Catalog) Mapper(ctx context.Context, name string) (*Mapper[Record], error) {
	def, err := c.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.mappers[name]
	c.mu.RUnlock()
	if ok && entry.updatedAt.Equal(def.UpdatedAt) {
		return entry.mapper, nil
	}

	opts := append([]Option{WithName(name)}, c.opts...)
	m, err := NewRecordMapper(def.Template, def.Fields, opts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.mappers[name] = catalogEntry{updatedAt: def.UpdatedAt, mapper: m}
	c.mu.Unlock()
	return m, nil
}

// Render renders record through the named template.
func (c *Catalog) Render(ctx context.Context, name string, record Record, allowPartial bool) (string, error) {
	m, err := c.Mapper(ctx, name)
	if err != nil {
		return "", err
	}
	return m.Render(record, allowPartial)
}

// Parse parses text through the named template. ok is false when text does
// not match or a value is malformed; err is reserved for lookup failures.
func (c *Catalog) Parse(ctx context.Context, name, text string) (record Record, ok bool, err error) {
	m, err := c.Mapper(ctx, name)
	if err != nil {
		return nil, false, err
	}
	record, ok = m.MapFromString(text)
	return record, ok, nil
}

// Resolve returns the names of all definitions whose template matches text and
// whose captured values parse, in name order. Definitions are tried concurrently.
func (c *Catalog) Resolve(ctx context.Context, text string) ([]string, error) {
	defs, err := c.store.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	matched := make([]bool, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(CatalogResolveConcurrency)
	for i, def := range defs {
		g.Go(func() error {
			m, err := c.Mapper(gctx, def.Name)
			if err != nil {
				if IsNotFound(err) || IsConfigError(err) {
					c.logger.Debug(LogMsgBuildFailed, zap.String(LogFieldKey, def.Name), zap.Error(err))
					return nil
				}
				return err
			}
			_, matched[i] = m.MapFromString(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var names []string
	for i, def := range defs {
		if matched[i] {
			names = append(names, def.Name)
		}
	}
	return names, nil
}

// Store returns the underlying store.
func (c *Catalog) Store() TemplateStore {
	return c.store
}

// Close closes the underlying store.
func (c *Catalog) Close() error {
	return c.store.Close()
}

// ReadCatalogFile decodes the definitions of a YAML catalog file.
func ReadCatalogFile(path string) ([]*TemplateDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgCatalogRead, Name: path, Cause: err}
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &StorageError{Message: ErrMsgCatalogDecode, Name: path, Cause: err}
	}

	seen := make(map[string]bool, len(file.Templates))
	for _, def := range file.Templates {
		if def == nil || def.Name == "" {
			return nil, &StorageError{Message: ErrMsgInvalidTemplateName, Name: path}
		}
		if seen[def.Name] {
			return nil, &StorageError{Message: ErrMsgCatalogDuplicate, Name: def.Name}
		}
		seen[def.Name] = true
	}
	return file.Templates, nil
}

// LoadCatalogFile reads a YAML catalog file into a memory-backed Catalog,
// validating every definition.
func LoadCatalogFile(ctx context.Context, path string, opts ...Option) (*Catalog, error) {
	defs, err := ReadCatalogFile(path)
	if err != nil {
		return nil, err
	}

	catalog := NewCatalog(NewMemoryStore(), opts...)
	for _, def := range defs {
		if err := catalog.Register(ctx, def); err != nil {
			return nil, err
		}
	}

	catalog.logger.Debug(LogMsgStoreOpened,
		zap.String(LogFieldDriver, StorageDriverNameMemory),
		zap.String(LogFieldKey, path),
		zap.Int(LogFieldCount, len(defs)))
	return catalog, nil
}

// FieldTypeName returns the field type name accepted in definitions for t,
// or "" when t has no such name.
func FieldTypeName(t reflect.Type) string {
	for _, name := range internal.FieldTypeNames() {
		ft, _ := internal.ParseFieldType(name)
		if ft == t {
			return name
		}
		if reflect.PointerTo(ft) == t {
			return internal.TypeNameNullablePrefix + name
		}
	}
	return ""
}
