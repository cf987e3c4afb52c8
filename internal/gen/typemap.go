package gen

import (
	"strings"

	"github.com/BearLemma/blogs/model"
)

// goType renders a FieldType as Go type syntax. Entity references render as a
// bare type name resolved against the model file; a reference to an entity
// absent from the schema set fails so the generator can report the dangling
// reference instead of emitting uncompilable code.
func goType(t model.FieldType, set model.SchemaSet) (string, error) {
	switch t.Kind {
	case model.Bool:
		return "bool", nil
	case model.Number:
		return "float64", nil
	case model.String, model.Ref:
		return "string", nil
	case model.DateTime:
		return "time.Time", nil
	case model.Bytes:
		return "[]byte", nil
	case model.Array:
		elem, err := goType(*t.Elem, set)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	case model.Entity:
		if _, ok := set[t.EntityName]; !ok {
			return "", &model.UnknownEntityError{Entity: t.EntityName}
		}
		return exportName(t.EntityName), nil
	default:
		return "", &model.UnknownEntityError{Entity: t.String()}
	}
}

// fieldSite renders the declaration site of a field: optional scalar and
// entity fields become pointers so absence is representable, while slices
// (arrays, byte buffers) stay bare since nil already expresses it.
func fieldSite(f model.FieldDef, set model.SchemaSet) (goTyp, tag string, err error) {
	typ, err := goType(f.Type, set)
	if err != nil {
		return "", "", err
	}
	tag = f.Name
	if f.Optional {
		if !strings.HasPrefix(typ, "[]") {
			typ = "*" + typ
		}
		tag += ",omitempty"
	}
	return typ, tag, nil
}
