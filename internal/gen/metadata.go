package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BearLemma/blogs/internal/routes"
	"github.com/BearLemma/blogs/model"
)

// emitSchemas renders the reflection metadata unit: the full SchemaSet as a
// data literal the codec consults at runtime, plus one package-level var per
// entity the generated operations reference.
func emitSchemas(set model.SchemaSet, entries []routes.Entry, pkg, runtimeImport string) ([]byte, error) {
	names := set.Names()
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by clientgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "import %q\n\n", runtimeImport+"/model")

	b.WriteString("// Schemas describes every entity of this client for the runtime codec.\n")
	b.WriteString("var Schemas = model.SchemaSet{\n")
	for _, name := range names {
		def := set[name]
		fmt.Fprintf(&b, "\t%q: {\n\t\tName: %q,\n\t\tFields: []model.FieldDef{\n", name, name)
		for _, f := range def.Fields {
			fmt.Fprintf(&b, "\t\t\t{Name: %q, Type: %s", f.Name, typeExpr(f.Type))
			if f.Optional {
				b.WriteString(", Optional: true")
			}
			b.WriteString("},\n")
		}
		b.WriteString("\t\t},\n\t},\n")
	}
	b.WriteString("}\n\n")

	used := opEntities(entries)
	if len(used) > 0 {
		b.WriteString("var (\n")
		for _, name := range used {
			if _, ok := set[name]; !ok {
				return nil, fmt.Errorf("route references %w", &model.UnknownEntityError{Entity: name})
			}
			fmt.Fprintf(&b, "\tentity%s = Schemas[%q]\n", exportName(name), name)
		}
		b.WriteString(")\n")
	}
	return []byte(b.String()), nil
}

func typeExpr(t model.FieldType) string {
	switch t.Kind {
	case model.Bool:
		return "model.BoolType()"
	case model.Number:
		return "model.NumberType()"
	case model.String:
		return "model.StringType()"
	case model.DateTime:
		return "model.DateTimeType()"
	case model.Bytes:
		return "model.BytesType()"
	case model.Ref:
		return "model.RefType()"
	case model.Array:
		return "model.ArrayOf(" + typeExpr(*t.Elem) + ")"
	case model.Entity:
		return fmt.Sprintf("model.EntityOf(%q)", t.EntityName)
	default:
		return "model.StringType()"
	}
}

// opEntities returns the sorted, deduplicated entity names the route table's
// non-delete operations move. Delete operations carry no body.
func opEntities(entries []routes.Entry) []string {
	seen := make(map[string]bool)
	for _, e := range entries {
		switch e.Op.Kind {
		case routes.DeleteOne, routes.DeleteMany:
			continue
		}
		seen[e.Op.Entity] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
