// Package strmap maps values to strings and strings back to values through a
// single template.
//
// A template is literal text with placeholders in braces:
//
//	tenants/{Tenant}/pages/{Page}
//
// # Basic Usage
//
// Create a Mapper for a type and use it in both directions:
//
//	type Route struct {
//	    Tenant uuid.UUID
//	    Page   int
//	}
//
//	m, err := strmap.New[Route]("tenants/{Tenant:D}/pages/{Page}")
//	s, err := m.MapToString(Route{Tenant: id, Page: 3})
//	// s: "tenants/0f8fad5b-d9cb-469f-a165-70867728950e/pages/3"
//
//	r, ok := m.MapFromString(s)
//	// r == Route{Tenant: id, Page: 3}, ok == true
//
// MapFromString returns false instead of an error when the text does not
// match or a captured value cannot be parsed. A partially filled value is
// never returned.
//
// # Template Syntax
//
// A placeholder is {name} or {name:format}. The name refers to a field of the
// mapped type; the format is applied when the value is rendered and when the
// captured text is parsed:
//
//	{Created:yyyy/MM/dd}   custom date pattern
//	{Created:2006-01-02}   Go reference layout
//	{Order:N}              32 hex digit UUID
//	{Amount:%08d}          fmt verb for numbers
//
// A brace that does not open a well-formed placeholder is literal text, so
// "a{b" and "{x" need no escaping. A placeholder name may appear more than
// once; every occurrence must capture the same text when parsing.
//
// The reserved name this stands for the whole value, which lets scalar types
// map directly:
//
//	m := strmap.MustNew[uuid.UUID]("ids/{this}")
//	s, _ := m.MapToString(id) // "ids/0f8fad5bd9cb469fa16570867728950e"
//
// # Descriptors
//
// How fields are read and how values are built is decided by a Descriptor:
//
//   - StructDescriptor binds exported struct fields (renamed with `strmap:"..."`)
//   - ConstructorDescriptor builds immutable values through a constructor
//   - Describe binds fields through explicit getter and setter functions
//   - RecordDescriptor binds Record maps whose fields are known at runtime
//
// New picks a descriptor for the type; NewWithDescriptor takes one explicitly.
//
// # Missing Values
//
// A nil pointer, nil interface or invalid sql.Null field has no value.
// MapToString fails on it with a missing-value error; MapToStringPartial stops
// and returns the text rendered before that placeholder:
//
//	m.MapToStringPartial(Path{A: "A"}) // template "alfa/{A}/bravo/{B}" -> "alfa/A/bravo/"
//
// # Catalogs
//
// Named templates can be kept in a TemplateStore (memory, filesystem or
// PostgreSQL) and served as Record mappers by a Catalog:
//
//	catalog, err := strmap.LoadCatalogFile(ctx, "catalog.yaml")
//	record, ok, err := catalog.Parse(ctx, "order-line", text)
//	names, err := catalog.Resolve(ctx, text)
//
// # Configuration
//
// Customize a mapper with functional options:
//
//	m, err := strmap.New[Route](template,
//	    strmap.WithLogger(logger),
//	    strmap.WithLocation(time.Local),
//	)
package strmap
