package ghapi

import (
	"fmt"
	"sort"
)

// FieldKind describes how a field is stored and whether it may be assigned.
type FieldKind int

const (
	// KindScalar is a read-only JSON value.
	KindScalar FieldKind = iota
	// KindWritable is a JSON value that can be changed and saved.
	KindWritable
	// KindEntity is a nested resource hydrated into a child *Entity.
	KindEntity
	// KindTimestamp is an RFC 3339 string hydrated into a time.Time.
	KindTimestamp
)

// String implements fmt.Stringer.
func (k FieldKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindWritable:
		return "writable"
	case KindEntity:
		return "entity"
	case KindTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field declares a single schema field. Ref names the schema of a
// KindEntity field and is bound by Registry.Resolve.
type Field struct {
	Name string
	Kind FieldKind
	Ref  string
}

// Scalar declares a read-only field.
func Scalar(name string) Field { return Field{Name: name, Kind: KindScalar} }

// Writable declares a field that can be assigned and saved.
func Writable(name string) Field { return Field{Name: name, Kind: KindWritable} }

// Ref declares a nested resource of the named schema.
func Ref(name, schema string) Field { return Field{Name: name, Kind: KindEntity, Ref: schema} }

// Timestamp declares an RFC 3339 timestamp field.
func Timestamp(name string) Field { return Field{Name: name, Kind: KindTimestamp} }

// TransformFunc rewrites the dirty-field payload before an entity is saved.
type TransformFunc func(e *Entity, data map[string]any) error

// URLFunc derives an API url for entities whose payload carries none.
type URLFunc func(data map[string]any) (string, bool)

// Schema is the field table of one resource type.
type Schema struct {
	Name string
	// DefaultField receives a bare scalar payload, e.g. a user given as a
	// login string.
	DefaultField string
	Fields       []Field
	Transform    TransformFunc
	DeriveURL    URLFunc

	index map[string]int
	refs  map[string]*Schema
}

func (s *Schema) field(name string) (Field, bool) {
	if s.index != nil {
		i, ok := s.index[name]
		if !ok {
			return Field{}, false
		}

		return s.Fields[i], true
	}

	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// Has reports whether the schema declares the named field.
func (s *Schema) Has(name string) bool {
	_, ok := s.field(name)

	return ok
}

// FieldNames returns the declared field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}

	return names
}

func (s *Schema) ref(field string) (*Schema, error) {
	target, ok := s.refs[field]
	if !ok || target == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnresolvedType, s.Name, field)
	}

	return target, nil
}

// Registry maps type tags to schemas and binds entity references between
// them.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds schemas to the registry. A later schema with the same name
// replaces an earlier one.
func (r *Registry) Register(schemas ...*Schema) {
	for _, s := range schemas {
		if s != nil {
			r.schemas[s.Name] = s
		}
	}
}

// Resolve indexes every registered schema and binds each Ref tag to its
// schema. It fails with ErrUnknownType when a tag was never registered.
func (r *Registry) Resolve() error {
	for _, s := range r.schemas {
		index := make(map[string]int, len(s.Fields))
		refs := make(map[string]*Schema)

		for i, f := range s.Fields {
			index[f.Name] = i

			if f.Kind != KindEntity {
				continue
			}

			target, ok := r.schemas[f.Ref]
			if !ok {
				return fmt.Errorf("%w: %q referenced by %s.%s", ErrUnknownType, f.Ref, s.Name, f.Name)
			}

			refs[f.Name] = target
		}

		if s.DefaultField != "" {
			if _, ok := index[s.DefaultField]; !ok {
				return fmt.Errorf("%w: default field %s.%s is not declared", ErrInvalidProperty, s.Name, s.DefaultField)
			}
		}

		s.index = index
		s.refs = refs
	}

	return nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	return s, nil
}

// Names returns the registered type tags in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
