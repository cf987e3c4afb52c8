package wire

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"time"

	"github.com/BearLemma/blogs/model"
)

var timeType = reflect.TypeOf(time.Time{})

// Decode converts a wire object back into a typed value according to def.
// out must be a non-nil pointer to a struct or to a map[string]any. Required
// fields absent from obj fail with a MissingFieldError; wire fields the schema
// does not declare are ignored for forward compatibility.
func (c Codec) Decode(def model.EntityDef, obj map[string]any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode %s: out must be a non-nil pointer, got %s", def.Name, typeName(out))
	}
	elem := rv.Elem()
	if m, ok := out.(*map[string]any); ok {
		decoded, err := c.decodeToMap(def, obj)
		if err != nil {
			return err
		}
		*m = decoded
		return nil
	}
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("decode %s: unsupported target %s", def.Name, typeName(out))
	}
	return c.decodeToStruct(def, obj, elem)
}

func (c Codec) decodeToStruct(def model.EntityDef, obj map[string]any, target reflect.Value) error {
	if id, ok := obj["id"]; ok && id != nil {
		s, isStr := id.(string)
		if !isStr {
			return &model.TypeMismatchError{Entity: def.Name, Field: "id", Expected: "string", Actual: typeName(id)}
		}
		if fv, ok := structField(target, "id"); ok && fv.Kind() == reflect.String {
			fv.SetString(s)
		}
	}
	for _, f := range def.Fields {
		wv, ok := obj[f.Name]
		if !ok || wv == nil {
			if !f.Optional {
				return &model.MissingFieldError{Entity: def.Name, Field: f.Name}
			}
			continue
		}
		fv, ok := structField(target, f.Name)
		if !ok {
			continue // target struct narrower than the schema
		}
		if err := c.setField(def.Name, f.Name, f.Type, fv, wv); err != nil {
			return err
		}
	}
	return nil
}

// setField decodes wv per t into the struct field fv, allocating through a
// pointer when the field is declared optional.
func (c Codec) setField(entity, field string, t model.FieldType, fv reflect.Value, wv any) error {
	if fv.Kind() == reflect.Pointer {
		p := reflect.New(fv.Type().Elem())
		if err := c.setField(entity, field, t, p.Elem(), wv); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}
	mismatch := func() error {
		return &model.TypeMismatchError{Entity: entity, Field: field, Expected: t.String(), Actual: typeName(wv)}
	}
	switch t.Kind {
	case model.Bool:
		b, ok := wv.(bool)
		if !ok || fv.Kind() != reflect.Bool {
			return mismatch()
		}
		fv.SetBool(b)
	case model.Number:
		n, ok := wv.(float64)
		if !ok {
			return mismatch()
		}
		switch fv.Kind() {
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(n)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fv.SetInt(int64(n))
		default:
			return mismatch()
		}
	case model.String, model.Ref:
		s, ok := wv.(string)
		if !ok || fv.Kind() != reflect.String {
			return mismatch()
		}
		fv.SetString(s)
	case model.DateTime:
		ms, ok := wireMillis(wv)
		if !ok || fv.Type() != timeType {
			return mismatch()
		}
		fv.Set(reflect.ValueOf(time.UnixMilli(ms).UTC()))
	case model.Bytes:
		s, ok := wv.(string)
		if !ok || fv.Kind() != reflect.Slice || fv.Type().Elem().Kind() != reflect.Uint8 {
			return mismatch()
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return &model.TypeMismatchError{Entity: entity, Field: field, Expected: "base64", Actual: s}
		}
		fv.SetBytes(b)
	case model.Array:
		arr, ok := wv.([]any)
		if !ok || fv.Kind() != reflect.Slice {
			return mismatch()
		}
		slice := reflect.MakeSlice(fv.Type(), len(arr), len(arr))
		for i, ev := range arr {
			if err := c.setField(entity, field, *t.Elem, slice.Index(i), ev); err != nil {
				return err
			}
		}
		fv.Set(slice)
	case model.Entity:
		m, ok := wv.(map[string]any)
		if !ok {
			return mismatch()
		}
		nested, err := c.Schemas.Entity(t.EntityName)
		if err != nil {
			return err
		}
		if fv.Kind() != reflect.Struct {
			return mismatch()
		}
		return c.decodeToStruct(nested, m, fv)
	default:
		return fmt.Errorf("%s.%s: unhandled field kind %v", entity, field, t.Kind)
	}
	return nil
}

// decodeToMap is the dynamic counterpart of decodeToStruct, used when the
// caller has no generated struct at hand.
func (c Codec) decodeToMap(def model.EntityDef, obj map[string]any) (map[string]any, error) {
	out := make(map[string]any)
	if id, ok := obj["id"]; ok && id != nil {
		s, isStr := id.(string)
		if !isStr {
			return nil, &model.TypeMismatchError{Entity: def.Name, Field: "id", Expected: "string", Actual: typeName(id)}
		}
		out["id"] = s
	}
	for _, f := range def.Fields {
		wv, ok := obj[f.Name]
		if !ok || wv == nil {
			if !f.Optional {
				return nil, &model.MissingFieldError{Entity: def.Name, Field: f.Name}
			}
			continue
		}
		v, err := c.decodeValue(def.Name, f.Name, f.Type, wv)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (c Codec) decodeValue(entity, field string, t model.FieldType, wv any) (any, error) {
	mismatch := func() error {
		return &model.TypeMismatchError{Entity: entity, Field: field, Expected: t.String(), Actual: typeName(wv)}
	}
	switch t.Kind {
	case model.Bool:
		if b, ok := wv.(bool); ok {
			return b, nil
		}
		return nil, mismatch()
	case model.Number:
		if n, ok := wv.(float64); ok {
			return n, nil
		}
		return nil, mismatch()
	case model.String, model.Ref:
		if s, ok := wv.(string); ok {
			return s, nil
		}
		return nil, mismatch()
	case model.DateTime:
		ms, ok := wireMillis(wv)
		if !ok {
			return nil, mismatch()
		}
		return time.UnixMilli(ms).UTC(), nil
	case model.Bytes:
		s, ok := wv.(string)
		if !ok {
			return nil, mismatch()
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, &model.TypeMismatchError{Entity: entity, Field: field, Expected: "base64", Actual: s}
		}
		return b, nil
	case model.Array:
		arr, ok := wv.([]any)
		if !ok {
			return nil, mismatch()
		}
		out := make([]any, len(arr))
		for i, ev := range arr {
			v, err := c.decodeValue(entity, field, *t.Elem, ev)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case model.Entity:
		m, ok := wv.(map[string]any)
		if !ok {
			return nil, mismatch()
		}
		nested, err := c.Schemas.Entity(t.EntityName)
		if err != nil {
			return nil, err
		}
		return c.decodeToMap(nested, m)
	default:
		return nil, fmt.Errorf("%s.%s: unhandled field kind %v", entity, field, t.Kind)
	}
}
