package ghapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"
)

// ErrFieldType is returned by the typed getters when a stored value has a
// different type.
var ErrFieldType = errors.New("field has unexpected type")

// Entity is a lazily loaded remote resource described by a Schema.
//
// Fields present in the payload an entity was built from are served
// locally. Reading any other declared field loads the full resource from
// its url once. Writable fields can be changed with Set and sent back with
// Save, which submits only the changed fields.
type Entity struct {
	client   *Client
	schema   *Schema
	data     map[string]any
	modified []string
	loaded   bool
}

// NewEntity builds an entity of the given schema from a decoded JSON
// payload. A non-object payload is stored under the schema's default field.
func (c *Client) NewEntity(schema *Schema, data any) (*Entity, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	e := &Entity{client: c, schema: schema}

	err := e.reload(data)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// reload replaces all data and clears the dirty set. e is untouched when
// the payload is rejected.
func (e *Entity) reload(data any) error {
	values, err := e.hydrate(data)
	if err != nil {
		return err
	}

	e.data = values
	e.modified = nil

	return nil
}

func (e *Entity) hydrate(data any) (map[string]any, error) {
	payload, ok := data.(map[string]any)
	if !ok {
		if e.schema.DefaultField == "" {
			return nil, fmt.Errorf("%w: cannot set %s to %v without a default field", ErrInvalidData, e.schema.Name, data)
		}

		payload = map[string]any{e.schema.DefaultField: data}
	}

	values := make(map[string]any, len(payload))

	for _, f := range e.schema.Fields {
		raw, present := payload[f.Name]
		if !present {
			continue
		}

		value, err := e.hydrateField(f, raw)
		if err != nil {
			return nil, err
		}

		values[f.Name] = value
	}

	return values, nil
}

func (e *Entity) hydrateField(f Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch f.Kind {
	case KindEntity:
		if child, ok := raw.(*Entity); ok {
			return child, nil
		}

		target, err := e.schema.ref(f.Name)
		if err != nil {
			return nil, err
		}

		return e.client.NewEntity(target, raw)
	case KindTimestamp:
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvalidData, e.schema.Name, f.Name, err)
			}

			return ts, nil
		default:
			return nil, fmt.Errorf("%w: %s.%s is not a timestamp: %v", ErrInvalidData, e.schema.Name, f.Name, raw)
		}
	default:
		return raw, nil
	}
}

// Schema returns the entity's schema.
func (e *Entity) Schema() *Schema {
	return e.schema
}

// Loaded reports whether the full resource has been fetched.
func (e *Entity) Loaded() bool {
	return e.loaded
}

// Modified reports whether any field has been changed since the last load
// or save.
func (e *Entity) Modified() bool {
	return len(e.modified) > 0
}

// ModifiedFields returns the changed fields in the order they were first
// assigned.
func (e *Entity) ModifiedFields() []string {
	return slices.Clone(e.modified)
}

// URL returns the entity's API url, derived by the schema when the payload
// does not carry one.
func (e *Entity) URL() (string, bool) {
	if raw, ok := e.data["url"].(string); ok && raw != "" {
		return raw, true
	}

	if e.schema.DeriveURL != nil {
		return e.schema.DeriveURL(e.data)
	}

	return "", false
}

func (e *Entity) requireURL() (string, error) {
	u, ok := e.URL()
	if !ok {
		return "", propertyError(e.schema, "url", ErrMissingURL)
	}

	return u, nil
}

// Get returns a field value, loading the resource first when the field is
// not present locally. Nested resources are returned as *Entity and
// timestamps as time.Time.
func (e *Entity) Get(ctx context.Context, field string) (any, error) {
	if !e.schema.Has(field) {
		return nil, propertyError(e.schema, field, ErrInvalidProperty)
	}

	if value, ok := e.data[field]; ok {
		return value, nil
	}

	// The url is what a load needs, so it can never be loaded itself.
	if field == "url" {
		if u, ok := e.URL(); ok {
			return u, nil
		}

		return nil, propertyError(e.schema, field, ErrMissingURL)
	}

	if e.loaded {
		return nil, propertyError(e.schema, field, ErrMissingProperty)
	}

	_, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}

	value, ok := e.data[field]
	if !ok {
		return nil, propertyError(e.schema, field, ErrMissingProperty)
	}

	return value, nil
}

// GetString returns a string field. Null values yield "".
func (e *Entity) GetString(ctx context.Context, field string) (string, error) {
	value, err := e.Get(ctx, field)
	if err != nil || value == nil {
		return "", err
	}

	s, ok := value.(string)
	if !ok {
		return "", fieldTypeError(e.schema, field, "string", value)
	}

	return s, nil
}

// GetInt returns a numeric field. Null values yield 0.
func (e *Entity) GetInt(ctx context.Context, field string) (int, error) {
	value, err := e.Get(ctx, field)
	if err != nil || value == nil {
		return 0, err
	}

	switch n := value.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fieldTypeError(e.schema, field, "int", value)
		}

		return int(i), nil
	default:
		return 0, fieldTypeError(e.schema, field, "int", value)
	}
}

// GetBool returns a boolean field. Null values yield false.
func (e *Entity) GetBool(ctx context.Context, field string) (bool, error) {
	value, err := e.Get(ctx, field)
	if err != nil || value == nil {
		return false, err
	}

	b, ok := value.(bool)
	if !ok {
		return false, fieldTypeError(e.schema, field, "bool", value)
	}

	return b, nil
}

// GetEntity returns a nested resource. Null references yield nil.
func (e *Entity) GetEntity(ctx context.Context, field string) (*Entity, error) {
	value, err := e.Get(ctx, field)
	if err != nil || value == nil {
		return nil, err
	}

	child, ok := value.(*Entity)
	if !ok {
		return nil, fieldTypeError(e.schema, field, "entity", value)
	}

	return child, nil
}

// GetTime returns a timestamp field. Null values yield the zero time.
func (e *Entity) GetTime(ctx context.Context, field string) (time.Time, error) {
	value, err := e.Get(ctx, field)
	if err != nil || value == nil {
		return time.Time{}, err
	}

	ts, ok := value.(time.Time)
	if !ok {
		return time.Time{}, fieldTypeError(e.schema, field, "timestamp", value)
	}

	return ts, nil
}

func fieldTypeError(schema *Schema, field, want string, value any) error {
	return propertyError(schema, field, fmt.Errorf("%w: want %s, got %T", ErrFieldType, want, value))
}

// Set assigns a writable field. Assigning the current value is a no-op;
// otherwise the field is marked as modified.
func (e *Entity) Set(field string, value any) error {
	f, ok := e.schema.field(field)
	if !ok {
		return propertyError(e.schema, field, ErrInvalidProperty)
	}

	if f.Kind != KindWritable {
		return propertyError(e.schema, field, ErrReadOnlyProperty)
	}

	if current, ok := e.data[field]; ok && sameValue(current, value) {
		return nil
	}

	e.data[field] = value

	if !slices.Contains(e.modified, field) {
		e.modified = append(e.modified, field)
	}

	return nil
}

// Hydrate stores a value returned by the API for one field, as a load
// would, without marking it modified.
func (e *Entity) Hydrate(field string, raw any) error {
	f, ok := e.schema.field(field)
	if !ok {
		return propertyError(e.schema, field, ErrInvalidProperty)
	}

	value, err := e.hydrateField(f, raw)
	if err != nil {
		return err
	}

	e.data[field] = value

	return nil
}

// sameValue compares entities by identity and other values structurally.
// Numbers compare by value so that 3 and float64(3) are equal.
func sameValue(a, b any) bool {
	if ea, ok := a.(*Entity); ok {
		eb, ok := b.(*Entity)

		return ok && ea == eb
	}

	if _, ok := b.(*Entity); ok {
		return false
	}

	if na, ok := toFloat(a); ok {
		nb, ok := toFloat(b)

		return ok && na == nb
	}

	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Load fetches the resource from its url, replacing all local data and
// discarding unsaved changes.
func (e *Entity) Load(ctx context.Context) (*Entity, error) {
	u, err := e.requireURL()
	if err != nil {
		return nil, err
	}

	data, err := e.client.RequestJSON(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", e.schema.Name, err)
	}

	err = e.reload(data)
	if err != nil {
		return nil, err
	}

	e.loaded = true

	return e, nil
}

// Save sends the modified fields to the API with PATCH and reloads the
// entity from the response. It returns false without a call when nothing
// was modified. On failure the entity keeps its local changes.
func (e *Entity) Save(ctx context.Context) (bool, error) {
	if len(e.modified) == 0 {
		return false, nil
	}

	u, err := e.requireURL()
	if err != nil {
		return false, err
	}

	payload := make(map[string]any, len(e.modified))
	for _, field := range e.modified {
		payload[field] = e.data[field]
	}

	if e.schema.Transform != nil {
		err = e.schema.Transform(e, payload)
		if err != nil {
			return false, fmt.Errorf("transforming %s: %w", e.schema.Name, err)
		}
	}

	data, err := e.client.RequestJSON(ctx, http.MethodPatch, u, payload)
	if err != nil {
		return false, fmt.Errorf("saving %s: %w", e.schema.Name, err)
	}

	if data == nil {
		e.modified = nil
	} else {
		err = e.reload(data)
		if err != nil {
			return false, err
		}
	}

	e.loaded = true

	return true, nil
}

// Delete removes the resource and clears the entity.
func (e *Entity) Delete(ctx context.Context) error {
	u, err := e.requireURL()
	if err != nil {
		return err
	}

	_, err = e.client.Request(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", e.schema.Name, err)
	}

	e.data = make(map[string]any)
	e.modified = nil
	e.loaded = false

	return nil
}

// AsMap converts the entity and its children to plain data. Timestamps are
// rendered as RFC 3339 strings.
func (e *Entity) AsMap() map[string]any {
	result := make(map[string]any, len(e.data))

	for field, value := range e.data {
		switch v := value.(type) {
		case *Entity:
			result[field] = v.AsMap()
		case time.Time:
			result[field] = v.Format(time.RFC3339)
		case fmt.Stringer:
			result[field] = v.String()
		default:
			result[field] = v
		}
	}

	return result
}

// MarshalJSON encodes the entity's loaded data.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.AsMap())
}

// FetchCollection returns an unloaded collection of a sub-resource. A path
// with a leading slash is relative to the API root; any other path is
// appended to the entity's url.
func (e *Entity) FetchCollection(path string, item *Schema, params url.Values) (*Collection, error) {
	if rest, ok := strings.CutPrefix(path, "/"); ok {
		return e.client.NewCollection(rest, item, params), nil
	}

	u, err := e.requireURL()
	if err != nil {
		return nil, err
	}

	return e.client.NewCollection(u+"/"+path, item, params), nil
}

// CreateChild POSTs data to the entity's url followed by path and returns
// a child built from the submitted data. The response body is not used, so
// server-assigned fields are only available after a Load.
func (e *Entity) CreateChild(ctx context.Context, path string, item *Schema, data map[string]any) (*Entity, error) {
	if item == nil {
		return nil, ErrNilSchema
	}

	u, err := e.requireURL()
	if err != nil {
		return nil, err
	}

	_, err = e.client.RequestJSON(ctx, http.MethodPost, u+path, data)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", item.Name, err)
	}

	return e.client.NewEntity(item, data)
}
