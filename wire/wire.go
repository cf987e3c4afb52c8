// Package wire converts typed entities to and from their JSON-safe wire
// representation. The conversion is driven by schema metadata (model.EntityDef)
// rather than naive serialization: DateTime fields travel as epoch-millisecond
// numbers, Bytes fields as base64 strings, nested entities as objects resolved
// through the SchemaSet.
//
// Both directions are pure, synchronous transforms; a Codec is safe for
// concurrent use.
package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/BearLemma/blogs/model"
)

// Mode selects how the field walk treats the implicit id and absent fields.
type Mode int

const (
	// Full requires every non-optional field and passes a present id through.
	Full Mode = iota
	// Create strips the id field at every nesting depth: the server assigns
	// identifiers, so a create payload never carries one, not even on nested
	// entities.
	Create
	// Update treats every field at every depth as optionally present, so a
	// partial patch never trips a missing-field error.
	Update
)

// Codec is the schema-driven entity transcoder.
type Codec struct {
	Schemas model.SchemaSet
}

// Encode converts value into a JSON-safe map according to def. value may be a
// struct, a pointer to struct, or a map[string]any; absence is a missing map
// key, a nil map value, or a nil pointer field. The id field is included only
// when present and non-empty, and never in Create mode.
func (c Codec) Encode(def model.EntityDef, value any, mode Mode) (map[string]any, error) {
	out := make(map[string]any)
	if mode != Create {
		if id, ok, err := fieldValue(def.Name, value, "id"); err != nil {
			return nil, err
		} else if ok {
			s, isStr := id.(string)
			if !isStr {
				return nil, &model.TypeMismatchError{Entity: def.Name, Field: "id", Expected: "string", Actual: typeName(id)}
			}
			if s != "" {
				out["id"] = s
			}
		}
	}
	for _, f := range def.Fields {
		v, ok, err := fieldValue(def.Name, value, f.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			if f.Optional || mode == Update {
				continue
			}
			return nil, &model.MissingFieldError{Entity: def.Name, Field: f.Name}
		}
		enc, err := c.encodeValue(def.Name, f.Name, f.Type, v, mode)
		if err != nil {
			return nil, err
		}
		out[f.Name] = enc
	}
	return out, nil
}

func (c Codec) encodeValue(entity, field string, t model.FieldType, v any, mode Mode) (any, error) {
	mismatch := func() error {
		return &model.TypeMismatchError{Entity: entity, Field: field, Expected: t.String(), Actual: typeName(v)}
	}
	switch t.Kind {
	case model.Bool:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Bool {
			return nil, mismatch()
		}
		return rv.Bool(), nil
	case model.Number:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), nil
		case reflect.Float32, reflect.Float64:
			return rv.Float(), nil
		}
		return nil, mismatch()
	case model.String, model.Ref:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.String {
			return nil, mismatch()
		}
		return rv.String(), nil
	case model.DateTime:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, mismatch()
		}
		return ts.UnixMilli(), nil
	case model.Bytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, mismatch()
		}
		return base64.StdEncoding.EncodeToString(b), nil
	case model.Array:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, mismatch()
		}
		arr := make([]any, rv.Len())
		for i := range arr {
			enc, err := c.encodeValue(entity, field, *t.Elem, rv.Index(i).Interface(), mode)
			if err != nil {
				return nil, err
			}
			arr[i] = enc
		}
		return arr, nil
	case model.Entity:
		nested, err := c.Schemas.Entity(t.EntityName)
		if err != nil {
			return nil, err
		}
		return c.Encode(nested, v, mode)
	default:
		return nil, fmt.Errorf("%s.%s: unhandled field kind %v", entity, field, t.Kind)
	}
}

// fieldValue reads the named field from a map or (possibly pointered) struct
// value. The second return reports presence: a missing key, nil map value, or
// nil pointer field counts as absent, as does an empty id string.
func fieldValue(entity string, value any, name string) (any, bool, error) {
	if m, ok := value.(map[string]any); ok {
		v, ok := m[name]
		if !ok || v == nil {
			return nil, false, nil
		}
		return v, true, nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false, &model.TypeMismatchError{Entity: entity, Field: name, Expected: "object", Actual: typeName(value)}
	}
	fv, ok := structField(rv, name)
	if !ok {
		return nil, false, nil
	}
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil, false, nil
		}
		fv = fv.Elem()
	}
	if name == "id" {
		if s, ok := fv.Interface().(string); ok && s == "" {
			return nil, false, nil
		}
	}
	return fv.Interface(), true, nil
}

// structField resolves a wire field name against a struct value: the json tag
// wins, then a case-insensitive match on the Go field name (covers id vs ID).
func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tagName(sf) == name {
			return rv.Field(i), true
		}
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.IsExported() && tagName(sf) == "" && strings.EqualFold(sf.Name, name) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tagName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return ""
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// wireMillis normalizes the numeric forms a JSON decoder may hand us for an
// epoch-millisecond timestamp.
func wireMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
