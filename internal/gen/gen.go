// Package gen turns a SchemaSet and a route table into a typed Go client
// package: a models unit (one struct per entity), a reflection-metadata unit
// (the SchemaSet as a data literal), and a client unit (nested groups
// mirroring the URL hierarchy, delegating to the crud runtime).
//
// Output is deterministic: the same inputs reproduce the same bytes.
package gen

import (
	"errors"
	"fmt"
	"go/format"

	"github.com/BearLemma/blogs/internal/routes"
	"github.com/BearLemma/blogs/model"
)

// DefaultRuntimeImport is the module that hosts the crud and model runtime
// packages generated code imports.
const DefaultRuntimeImport = "github.com/BearLemma/blogs"

// Naming selects the file-name convention of generated units. It is textual
// only; both values produce identical Go code.
const (
	NamingPlain = "plain" // models.go, schemas.go, client.go
	NamingGen   = "gen"   // models.gen.go, schemas.gen.go, client.gen.go
)

// ErrEmptyRoutes is returned when the route table holds no entries: there is
// nothing meaningful to emit and the caller must decide whether that is fatal.
var ErrEmptyRoutes = errors.New("empty route set")

// Config parameterizes a generation run.
type Config struct {
	// Package is the package name of the generated units.
	Package string
	// RuntimeImport is the module path hosting crud and model;
	// DefaultRuntimeImport when empty.
	RuntimeImport string
	// Naming is NamingPlain or NamingGen; NamingPlain when empty.
	Naming string
}

// File is one generated source unit.
type File struct {
	Name    string
	Content []byte
}

// Generate runs the full pipeline: route tree build, model, metadata, and
// client emission, then gofmt. Inputs are treated as immutable snapshots; the
// run holds no state across calls.
func Generate(set model.SchemaSet, entries []routes.Entry, cfg Config) ([]File, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyRoutes
	}
	if cfg.Package == "" {
		return nil, errors.New("config: package name is required")
	}
	if cfg.RuntimeImport == "" {
		cfg.RuntimeImport = DefaultRuntimeImport
	}
	suffix := ".go"
	switch cfg.Naming {
	case NamingPlain, "":
	case NamingGen:
		suffix = ".gen.go"
	default:
		return nil, fmt.Errorf("config: unknown naming style %q", cfg.Naming)
	}

	root, err := routes.Build(entries)
	if err != nil {
		return nil, err
	}

	models, err := emitModels(set, cfg.Package)
	if err != nil {
		return nil, err
	}
	schemas, err := emitSchemas(set, entries, cfg.Package, cfg.RuntimeImport)
	if err != nil {
		return nil, err
	}
	client, err := emitClient(root, set, cfg.Package, cfg.RuntimeImport)
	if err != nil {
		return nil, err
	}

	files := []File{
		{Name: "models" + suffix, Content: models},
		{Name: "schemas" + suffix, Content: schemas},
		{Name: "client" + suffix, Content: client},
	}
	for i := range files {
		formatted, err := format.Source(files[i].Content)
		if err != nil {
			return nil, fmt.Errorf("formatting %s: %w", files[i].Name, err)
		}
		files[i].Content = formatted
	}
	return files, nil
}
