package gen

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/BearLemma/blogs/model"
)

type modelField struct {
	GoName string
	GoType string
	Tag    string
}

type modelEntity struct {
	Name   string
	GoName string
	Fields []modelField
}

// emitModels renders one exported struct per entity, the synthesized id field
// first, then declared fields in schema order. Entities are emitted sorted by
// name; Go needs no topological ordering since types in one file are mutually
// visible.
func emitModels(set model.SchemaSet, pkg string) ([]byte, error) {
	names := set.Names()
	sort.Strings(names)

	needsTime := false
	entities := make([]modelEntity, 0, len(names))
	for _, name := range names {
		def := set[name]
		ent := modelEntity{Name: name, GoName: exportName(name)}
		ent.Fields = append(ent.Fields, modelField{GoName: "ID", GoType: "string", Tag: "id,omitempty"})
		for _, f := range def.Fields {
			typ, tag, err := fieldSite(f, set)
			if err != nil {
				return nil, fmt.Errorf("entity %s, field %s: %w", name, f.Name, err)
			}
			if usesTime(f.Type) {
				needsTime = true
			}
			ent.Fields = append(ent.Fields, modelField{GoName: exportName(f.Name), GoType: typ, Tag: tag})
		}
		entities = append(entities, ent)
	}

	var buf bytes.Buffer
	err := modelsTmpl.Execute(&buf, struct {
		Package   string
		NeedsTime bool
		Entities  []modelEntity
	}{pkg, needsTime, entities})
	if err != nil {
		return nil, fmt.Errorf("executing models template: %w", err)
	}
	return buf.Bytes(), nil
}

func usesTime(t model.FieldType) bool {
	for t.Kind == model.Array {
		t = *t.Elem
	}
	return t.Kind == model.DateTime
}

var modelsTmpl = template.Must(template.New("models").Parse(`// Code generated by clientgen. DO NOT EDIT.

package {{.Package}}
{{if .NeedsTime}}
import "time"
{{end}}
{{- range .Entities}}

// {{.GoName}} is the {{.Name}} entity. ID is assigned by the server.
type {{.GoName}} struct {
{{- range .Fields}}
	{{.GoName}} {{.GoType}} ` + "`json:\"{{.Tag}}\"`" + `
{{- end}}
}
{{- end}}
`))
