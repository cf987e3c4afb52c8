// Package cueload is the adapter to the schema collaborator: it reads entity
// definitions and the route table from a CUE package and hands the generator
// an immutable SchemaSet plus route entries.
//
// Entities are CUE definitions (#Post: {...}). Field types map as: string ->
// String, bool -> Bool, int/float/number -> Number, bytes -> Bytes, time.Time
// -> DateTime, [...T] -> Array(T), a reference to another definition ->
// Entity, and a string field annotated @ref(Name) -> an id-only reference.
// The id field is synthesized downstream and must not be declared.
package cueload

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/BearLemma/blogs/internal/routes"
	"github.com/BearLemma/blogs/model"
)

// Load builds the CUE package in dir and extracts the schema set and route
// table.
func Load(dir string) (model.SchemaSet, []routes.Entry, error) {
	insts := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(insts) == 0 {
		return nil, nil, fmt.Errorf("no CUE instances in %s", dir)
	}
	if insts[0].Err != nil {
		return nil, nil, fmt.Errorf("loading schema: %w", insts[0].Err)
	}
	ctx := cuecontext.New()
	val := ctx.BuildInstance(insts[0])
	if val.Err() != nil {
		return nil, nil, fmt.Errorf("building schema: %w", val.Err())
	}

	set, err := parseEntities(val)
	if err != nil {
		return nil, nil, err
	}
	entries, err := parseRoutes(val, set)
	if err != nil {
		return nil, nil, err
	}
	return set, entries, nil
}

func parseEntities(val cue.Value) (model.SchemaSet, error) {
	set := make(model.SchemaSet)
	iter, err := val.Fields(cue.Definitions(true))
	if err != nil {
		return nil, fmt.Errorf("reading schema fields: %w", err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !strings.HasPrefix(label, "#") {
			continue
		}
		name := strings.TrimPrefix(label, "#")
		def, err := parseEntity(name, iter.Value())
		if err != nil {
			return nil, err
		}
		set[name] = def
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("schema declares no entities")
	}
	return set, nil
}

func parseEntity(name string, val cue.Value) (model.EntityDef, error) {
	def := model.EntityDef{Name: name}
	iter, err := val.Fields(cue.Optional(true))
	if err != nil {
		return def, fmt.Errorf("entity %s: %w", name, err)
	}
	for iter.Next() {
		fname := strings.TrimSuffix(iter.Selector().String(), "?")
		if fname == "id" {
			return def, fmt.Errorf("entity %s declares an id field; ids are server-assigned", name)
		}
		ft, err := fieldType(iter.Value())
		if err != nil {
			return def, fmt.Errorf("entity %s, field %s: %w", name, fname, err)
		}
		def.Fields = append(def.Fields, model.FieldDef{
			Name:     fname,
			Type:     ft,
			Optional: iter.IsOptional(),
		})
	}
	return def, nil
}

func fieldType(val cue.Value) (model.FieldType, error) {
	// An @ref(Name) attribute marks an id-only entity reference.
	if a := val.Attribute("ref"); a.Err() == nil {
		if _, err := a.String(0); err != nil {
			return model.FieldType{}, fmt.Errorf("@ref: %w", err)
		}
		return model.RefType(), nil
	}

	// The reference path's last selector for time.Time is the bare "Time";
	// the package-qualified form only surfaces from selector expressions.
	switch ref := findReference(val); {
	case ref == "time.Time", ref == "Time":
		return model.DateTimeType(), nil
	case strings.HasPrefix(ref, "#"):
		return model.EntityOf(strings.TrimPrefix(ref, "#")), nil
	}

	kind := val.IncompleteKind()
	if kind == cue.BottomKind {
		kind = inferKindFromExpr(val)
	}
	switch kind {
	case cue.StringKind:
		return model.StringType(), nil
	case cue.BoolKind:
		return model.BoolType(), nil
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		return model.NumberType(), nil
	case cue.BytesKind:
		return model.BytesType(), nil
	case cue.ListKind:
		elem := val.LookupPath(cue.MakePath(cue.AnyIndex))
		if !elem.Exists() {
			return model.FieldType{}, fmt.Errorf("list without an element type")
		}
		et, err := fieldType(elem)
		if err != nil {
			return model.FieldType{}, err
		}
		return model.ArrayOf(et), nil
	default:
		return model.FieldType{}, fmt.Errorf("unsupported CUE kind %v", kind)
	}
}

// findReference recursively searches a CUE value for type references.
func findReference(val cue.Value) string {
	_, path := val.ReferencePath()
	if path.String() != "" {
		selectors := path.Selectors()
		if len(selectors) > 0 {
			return selectors[len(selectors)-1].String()
		}
	}
	op, args := val.Expr()
	if op == cue.AndOp || op == cue.OrOp {
		for _, arg := range args {
			if ref := findReference(arg); ref != "" {
				return ref
			}
		}
	}
	if op == cue.SelectorOp && len(args) >= 2 {
		if s, err := args[1].String(); err == nil && s == "Time" {
			return "time.Time"
		}
	}
	return ""
}

func inferKindFromExpr(val cue.Value) cue.Kind {
	op, args := val.Expr()
	if op == cue.AndOp || op == cue.OrOp {
		for _, arg := range args {
			if k := arg.IncompleteKind(); k != cue.BottomKind {
				return k
			}
			if inferred := inferKindFromExpr(arg); inferred != cue.BottomKind {
				return inferred
			}
		}
	}
	return cue.BottomKind
}

var opKinds = map[string]routes.OpKind{
	"create":    routes.CreateOne,
	"replace":   routes.ReplaceOne,
	"update":    routes.UpdateOne,
	"delete":    routes.DeleteOne,
	"deleteAll": routes.DeleteMany,
	"get":       routes.ReadOne,
	"list":      routes.ReadMany,
}

func parseRoutes(val cue.Value, set model.SchemaSet) ([]routes.Entry, error) {
	routesVal := val.LookupPath(cue.ParsePath("routes"))
	if routesVal.Err() != nil {
		return nil, fmt.Errorf("schema declares no routes: %w", routesVal.Err())
	}
	iter, err := routesVal.List()
	if err != nil {
		return nil, fmt.Errorf("routes is not a list: %w", err)
	}
	var entries []routes.Entry
	for iter.Next() {
		rv := iter.Value()
		path, err := rv.LookupPath(cue.ParsePath("path")).String()
		if err != nil {
			return nil, fmt.Errorf("route path: %w", err)
		}
		opName, err := rv.LookupPath(cue.ParsePath("op")).String()
		if err != nil {
			return nil, fmt.Errorf("route %s: op: %w", path, err)
		}
		entity, err := rv.LookupPath(cue.ParsePath("entity")).String()
		if err != nil {
			return nil, fmt.Errorf("route %s: entity: %w", path, err)
		}
		kind, ok := opKinds[opName]
		if !ok {
			return nil, fmt.Errorf("route %s: unknown op %q", path, opName)
		}
		if _, ok := set[entity]; !ok {
			return nil, fmt.Errorf("route %s: %w", path, &model.UnknownEntityError{Entity: entity})
		}
		entries = append(entries, routes.Entry{
			Path: routes.ParsePath(path),
			Op:   routes.Operation{Kind: kind, Entity: entity},
		})
	}
	return entries, nil
}
