package strmap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestCatalog(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	ctx := context.Background()
	catalog := NewCatalog(NewMemoryStore(), opts...)

	for _, def := range []*TemplateDefinition{
		{
			Name:     "order-line",
			Template: "orders/{order:N}/lines/{line}",
			Fields:   map[string]string{"order": "uuid", "line": "int"},
		},
		{
			Name:     "tenant",
			Template: "tenants/{tenant:N}",
			Fields:   map[string]string{"tenant": "uuid"},
		},
		{
			Name:     "catch-all",
			Template: "{path}",
		},
	} {
		require.NoError(t, catalog.Register(ctx, def))
	}
	return catalog
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		def     *TemplateDefinition
		wantErr bool
	}{
		{name: "valid", def: &TemplateDefinition{Name: "a", Template: "a/{x}"}},
		{name: "nil", def: nil, wantErr: true},
		{name: "nameless", def: &TemplateDefinition{Template: "a/{x}"}, wantErr: true},
		{name: "bad syntax", def: &TemplateDefinition{Name: "a", Template: "a/{}"}, wantErr: true},
		{name: "unknown field type", def: &TemplateDefinition{Name: "a", Template: "a/{x}", Fields: map[string]string{"x": "money"}}, wantErr: true},
		{name: "unformattable", def: &TemplateDefinition{Name: "a", Template: "a/{x:N}"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDefinition(tt.def)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalog_RegisterRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog(NewMemoryStore())

	err := catalog.Register(ctx, &TemplateDefinition{Name: "bad", Template: "x/{}"})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))

	ok, err := catalog.Store().Exists(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalog_Mapper(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	m1, err := catalog.Mapper(ctx, "order-line")
	require.NoError(t, err)
	m2, err := catalog.Mapper(ctx, "order-line")
	require.NoError(t, err)
	assert.Same(t, m1, m2)

	_, err = catalog.Mapper(ctx, "missing")
	assert.True(t, IsNotFound(err))
}

func TestCatalog_MapperRebuiltOnUpdate(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	m, err := catalog.Mapper(ctx, "tenant")
	require.NoError(t, err)
	assert.Equal(t, "tenants/{tenant:N}", m.Source())

	// update through the store directly, bypassing the catalog
	require.NoError(t, catalog.Store().Put(ctx, &TemplateDefinition{
		Name:     "tenant",
		Template: "t/{tenant:N}",
		Fields:   map[string]string{"tenant": "uuid"},
	}))

	m, err = catalog.Mapper(ctx, "tenant")
	require.NoError(t, err)
	assert.Equal(t, "t/{tenant:N}", m.Source())
}

func TestCatalog_RenderAndParse(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	s, err := catalog.Render(ctx, "order-line", Record{"order": testID, "line": 7}, false)
	require.NoError(t, err)
	assert.Equal(t, "orders/"+testIDCompact+"/lines/7", s)

	_, err = catalog.Render(ctx, "order-line", Record{"order": testID}, false)
	assert.True(t, IsMissingValueError(err))

	partial, err := catalog.Render(ctx, "order-line", Record{"order": testID}, true)
	require.NoError(t, err)
	assert.Equal(t, "orders/"+testIDCompact+"/lines/", partial)

	rec, ok, err := catalog.Parse(ctx, "order-line", s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Record{"order": testID, "line": 7}, rec)

	_, ok, err = catalog.Parse(ctx, "order-line", "orders/x/lines/7")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = catalog.Parse(ctx, "missing", s)
	assert.True(t, IsNotFound(err))
}

func TestCatalog_Resolve(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "order line", text: "orders/" + testIDCompact + "/lines/3", want: []string{"catch-all", "order-line"}},
		{name: "malformed line", text: "orders/" + testIDCompact + "/lines/x", want: []string{"catch-all"}},
		{name: "tenant", text: "tenants/" + testIDCompact, want: []string{"catch-all", "tenant"}},
		{name: "only catch-all", text: "anything", want: []string{"catch-all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := catalog.Resolve(ctx, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestCatalog_ResolveSkipsBrokenDefinitions(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)
	catalog := newTestCatalog(t, WithLogger(zap.New(core)))

	// stored without validation
	require.NoError(t, catalog.Store().Put(ctx, &TemplateDefinition{Name: "broken", Template: "x/{}"}))

	names, err := catalog.Resolve(ctx, "anything")
	require.NoError(t, err)
	assert.Equal(t, []string{"catch-all"}, names)
	assert.Equal(t, 1, logs.FilterMessage(LogMsgBuildFailed).Len())
}

func TestCatalog_Remove(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	_, err := catalog.Mapper(ctx, "tenant")
	require.NoError(t, err)

	require.NoError(t, catalog.Remove(ctx, "tenant"))
	_, err = catalog.Mapper(ctx, "tenant")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(catalog.Remove(ctx, "tenant")))

	defs, err := catalog.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"catch-all", "order-line"}, definitionNames(defs))

	def, err := catalog.Definition(ctx, "order-line")
	require.NoError(t, err)
	assert.Equal(t, "orders/{order:N}/lines/{line}", def.Template)

	require.NoError(t, catalog.Close())
}

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), FilesystemFilePermissions))
	return path
}

func TestReadCatalogFile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeCatalogFile(t, `
templates:
  - name: order-line
    template: "orders/{order:N}/lines/{line}"
    fields:
      order: uuid
      line: int
  - name: page
    template: "pages/{page}"
    tags: [public]
`)
		defs, err := ReadCatalogFile(path)
		require.NoError(t, err)
		require.Len(t, defs, 2)
		assert.Equal(t, "order-line", defs[0].Name)
		assert.Equal(t, map[string]string{"order": "uuid", "line": "int"}, defs[0].Fields)
		assert.Equal(t, []string{"public"}, defs[1].Tags)
	})

	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "duplicate", content: "templates:\n  - {name: a, template: x}\n  - {name: a, template: y}\n", message: ErrMsgCatalogDuplicate},
		{name: "nameless", content: "templates:\n  - {template: x}\n", message: ErrMsgInvalidTemplateName},
		{name: "malformed", content: "templates: [\n", message: ErrMsgCatalogDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCatalogFile(writeCatalogFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCatalogFile(filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgCatalogRead)
	})
}

func TestLoadCatalogFile(t *testing.T) {
	ctx := context.Background()

	path := writeCatalogFile(t, `
templates:
  - name: tenant-page
    template: "tenants/{tenant}/pages/{page}"
    fields:
      tenant: uuid
      page: "*int"
`)
	catalog, err := LoadCatalogFile(ctx, path)
	require.NoError(t, err)

	rec, ok, err := catalog.Parse(ctx, "tenant-page", "tenants/"+testIDCompact+"/pages/")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testID, rec["tenant"])
	assert.Nil(t, rec["page"])

	_, err = LoadCatalogFile(ctx, writeCatalogFile(t, "templates:\n  - {name: bad, template: \"x/{a:N}\"}\n"))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}
