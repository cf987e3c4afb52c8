// Package model is the shared type vocabulary for the client generator and the
// runtime codec. A backend schema is a SchemaSet: named entities whose fields
// carry a FieldType. The generator renders these types into Go source; the wire
// codec walks the same definitions at runtime to convert entities to and from
// their JSON representation.
//
// Every entity implicitly carries a server-assigned "id" field of type String.
// It is never declared in a schema; emitters and the codec synthesize it.
package model

// Kind discriminates the FieldType variants.
type Kind int

const (
	// Bool is a JSON boolean.
	Bool Kind = iota
	// Number is a JSON number, carried as float64 in Go.
	Number
	// String is a JSON string.
	String
	// DateTime is a timestamp, carried on the wire as epoch-milliseconds.
	DateTime
	// Bytes is a binary blob, carried on the wire as a base64 string.
	Bytes
	// Ref is an id-only reference to another entity (a plain string id).
	Ref
	// Array is a homogeneous list; Elem holds the element type.
	Array
	// Entity is a nested entity; Entity holds the referenced entity name.
	Entity
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case DateTime:
		return "datetime"
	case Bytes:
		return "bytes"
	case Ref:
		return "ref"
	case Array:
		return "array"
	case Entity:
		return "entity"
	default:
		return "unknown"
	}
}

// FieldType is a recursive tagged variant describing one field's type.
// Array uses Elem; Entity uses EntityName. Entities reference each other by
// name through the SchemaSet rather than by embedding, so mutually referencing
// entity types cost nothing until actual data nests.
type FieldType struct {
	Kind       Kind
	Elem       *FieldType
	EntityName string
}

// Convenience constructors, used by loaders and by generated metadata.

func BoolType() FieldType     { return FieldType{Kind: Bool} }
func NumberType() FieldType   { return FieldType{Kind: Number} }
func StringType() FieldType   { return FieldType{Kind: String} }
func DateTimeType() FieldType { return FieldType{Kind: DateTime} }
func BytesType() FieldType    { return FieldType{Kind: Bytes} }
func RefType() FieldType      { return FieldType{Kind: Ref} }

func ArrayOf(elem FieldType) FieldType {
	return FieldType{Kind: Array, Elem: &elem}
}

func EntityOf(name string) FieldType {
	return FieldType{Kind: Entity, EntityName: name}
}

// String renders the type for error messages and logs, e.g. "array(entity(Post))".
func (t FieldType) String() string {
	switch t.Kind {
	case Array:
		return "array(" + t.Elem.String() + ")"
	case Entity:
		return "entity(" + t.EntityName + ")"
	default:
		return t.Kind.String()
	}
}

// FieldDef declares one entity field. Field order matters for generated output
// but not for codec correctness.
type FieldDef struct {
	Name     string
	Type     FieldType
	Optional bool
}

// EntityDef is a named record type exchanged between client and backend.
// Fields never include the implicit "id".
type EntityDef struct {
	Name   string
	Fields []FieldDef
}

// Field returns the definition of the named field, if declared.
func (d EntityDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// SchemaSet maps entity names to their definitions. It is populated once per
// generation run (or embedded as a literal in generated code) and read-only
// afterward, so concurrent lookups are safe.
type SchemaSet map[string]EntityDef

// Entity looks up an entity definition by name.
func (s SchemaSet) Entity(name string) (EntityDef, error) {
	def, ok := s[name]
	if !ok {
		return EntityDef{}, &UnknownEntityError{Entity: name}
	}
	return def, nil
}

// Names returns the entity names in unspecified order.
func (s SchemaSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}
