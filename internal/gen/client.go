package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BearLemma/blogs/internal/routes"
	"github.com/BearLemma/blogs/model"
)

// The client unit mirrors the route tree: one group struct per tree node,
// fixed children as fields, the captured child as a single-parameter method,
// and each mounted operation as a method delegating to the crud runtime.

type opSpec struct {
	Method     string
	Doc        string
	Kind       routes.OpKind
	EntityType string
	EntityVar  string
}

type childSpec struct {
	Field   string
	Literal string
	Type    string
}

type captureSpec struct {
	Method string
	Param  string
	Type   string
}

type groupSpec struct {
	Type    string
	Path    string
	Root    bool
	Ops     []opSpec
	Fixed   []childSpec
	Capture *captureSpec
}

// emission order for operations mounted at one node
var opOrder = []routes.OpKind{
	routes.CreateOne,
	routes.ReadOne,
	routes.ReplaceOne,
	routes.UpdateOne,
	routes.DeleteOne,
	routes.ReadMany,
	routes.DeleteMany,
}

func methodName(kind routes.OpKind) string {
	switch kind {
	case routes.CreateOne:
		return "Post"
	case routes.ReadOne:
		return "Get"
	case routes.ReplaceOne:
		return "Put"
	case routes.UpdateOne:
		return "Patch"
	case routes.DeleteOne:
		return "Delete"
	case routes.ReadMany:
		return "GetAll"
	case routes.DeleteMany:
		return "DeleteAll"
	default:
		return "Do"
	}
}

func opDoc(kind routes.OpKind, entity string) string {
	switch kind {
	case routes.CreateOne:
		return fmt.Sprintf("Post creates a new %s; the server assigns its id.", entity)
	case routes.ReadOne:
		return fmt.Sprintf("Get fetches the %s at this path.", entity)
	case routes.ReplaceOne:
		return fmt.Sprintf("Put replaces the %s at this path with value.", entity)
	case routes.UpdateOne:
		return fmt.Sprintf("Patch applies a partial update and returns the updated %s.", entity)
	case routes.DeleteOne:
		return "Delete removes the entity at this path."
	case routes.ReadMany:
		return fmt.Sprintf("GetAll iterates every %s under this path, fetching pages lazily.", entity)
	case routes.DeleteMany:
		return "DeleteAll removes every entity under this path."
	default:
		return ""
	}
}

// collectGroups walks the tree in preorder, fixed children sorted by literal
// and the captured child last, so emission is deterministic regardless of
// route insertion order.
func collectGroups(node *routes.Node, set model.SchemaSet, nameParts []string, path string) ([]groupSpec, error) {
	g := groupSpec{Path: path, Root: len(nameParts) == 0}
	if g.Root {
		g.Type = "Client"
		g.Path = "/"
	} else {
		g.Type = strings.Join(nameParts, "") + "Group"
	}

	taken := make(map[string]string)
	claim := func(name, what string) error {
		if prev, ok := taken[name]; ok {
			return fmt.Errorf("%s: %s and %s both emit %q", g.Path, prev, what, name)
		}
		taken[name] = what
		return nil
	}

	for _, kind := range opOrder {
		op, ok := node.Op(kind)
		if !ok {
			continue
		}
		spec := opSpec{
			Method: methodName(kind),
			Doc:    opDoc(kind, exportName(op.Entity)),
			Kind:   kind,
		}
		if kind != routes.DeleteOne && kind != routes.DeleteMany {
			if _, ok := set[op.Entity]; !ok {
				return nil, fmt.Errorf("%s: %s operation: %w", g.Path, kind, &model.UnknownEntityError{Entity: op.Entity})
			}
			spec.EntityType = exportName(op.Entity)
			spec.EntityVar = "entity" + exportName(op.Entity)
		}
		if err := claim(spec.Method, "operation "+kind.String()); err != nil {
			return nil, err
		}
		g.Ops = append(g.Ops, spec)
	}

	literals := make([]string, 0, len(node.Fixed))
	for lit := range node.Fixed {
		literals = append(literals, lit)
	}
	sort.Strings(literals)

	groups := []groupSpec{g}
	for _, lit := range literals {
		childParts := append(append([]string{}, nameParts...), exportName(lit))
		childType := strings.Join(childParts, "") + "Group"
		if err := claim(exportName(lit), "segment "+lit); err != nil {
			return nil, err
		}
		groups[0].Fixed = append(groups[0].Fixed, childSpec{
			Field:   exportName(lit),
			Literal: lit,
			Type:    childType,
		})
		sub, err := collectGroups(node.Fixed[lit], set, childParts, path+"/"+lit)
		if err != nil {
			return nil, err
		}
		groups = append(groups, sub...)
	}

	if ce := node.Capture; ce != nil {
		childParts := append(append([]string{}, nameParts...), exportName(ce.Param))
		childType := strings.Join(childParts, "") + "Group"
		if err := claim(exportName(ce.Param), "capture :"+ce.Param); err != nil {
			return nil, err
		}
		groups[0].Capture = &captureSpec{
			Method: exportName(ce.Param),
			Param:  paramVar(ce.Param),
			Type:   childType,
		}
		sub, err := collectGroups(ce.Node, set, childParts, path+"/:"+ce.Param)
		if err != nil {
			return nil, err
		}
		groups = append(groups, sub...)
	}

	// normalize the root path used in doc comments
	for i := range groups {
		groups[i].Path = strings.TrimPrefix(groups[i].Path, "//")
	}
	return groups, nil
}

// paramVar keeps a capture parameter from shadowing a Go keyword, the method
// receiver, or a package the generated unit imports.
func paramVar(name string) string {
	switch name {
	case "break", "case", "chan", "const", "continue", "default", "defer", "else",
		"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
		"map", "package", "range", "return", "select", "struct", "switch", "type", "var":
		return name + "Value"
	case "g", "c", "rt", "url", "ctx", "value", "patch",
		"context", "crud", "http", "iter":
		return name + "Value"
	}
	return name
}

// emitClient renders the client unit for the route tree rooted at root.
func emitClient(root *routes.Node, set model.SchemaSet, pkg, runtimeImport string) ([]byte, error) {
	groups, err := collectGroups(root, set, nil, "")
	if err != nil {
		return nil, err
	}

	hasIter, hasCapture := false, false
	for _, g := range groups {
		if g.Capture != nil {
			hasCapture = true
		}
		for _, op := range g.Ops {
			if op.Kind == routes.ReadMany {
				hasIter = true
			}
		}
	}

	var b strings.Builder
	b.WriteString("// Code generated by clientgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("import (\n")
	b.WriteString("\t\"context\"\n")
	if hasIter {
		b.WriteString("\t\"iter\"\n")
	}
	b.WriteString("\t\"net/http\"\n")
	if hasCapture {
		b.WriteString("\t\"net/url\"\n")
	}
	fmt.Fprintf(&b, "\n\t%q\n", runtimeImport+"/crud")
	b.WriteString(")\n")

	for _, g := range groups {
		writeGroup(&b, g)
	}
	return []byte(b.String()), nil
}

func writeGroup(b *strings.Builder, g groupSpec) {
	b.WriteString("\n")
	if g.Root {
		b.WriteString("// Client is the generated client; New connects it to a server base address.\n")
	} else {
		fmt.Fprintf(b, "// %s holds the operations mounted at %s.\n", g.Type, g.Path)
	}
	fmt.Fprintf(b, "type %s struct {\n\trt  *crud.Client\n\turl string\n", g.Type)
	if len(g.Fixed) > 0 {
		b.WriteString("\n")
		for _, c := range g.Fixed {
			fmt.Fprintf(b, "\t%s %s\n", c.Field, c.Type)
		}
	}
	b.WriteString("}\n\n")

	if g.Root {
		b.WriteString("// New returns a client for the API served at host.\n")
		b.WriteString("func New(host string) *Client {\n\treturn NewWithClient(host, nil)\n}\n\n")
		b.WriteString("// NewWithClient is New with a caller-supplied HTTP transport.\n")
		b.WriteString("func NewWithClient(host string, hc *http.Client) *Client {\n")
		b.WriteString("\trt := &crud.Client{Host: host, HTTP: hc, Schemas: Schemas}\n")
		b.WriteString("\tc := &Client{rt: rt, url: \"\"}\n")
		for _, c := range g.Fixed {
			fmt.Fprintf(b, "\tc.%s = new%s(rt, %q)\n", c.Field, c.Type, "/"+c.Literal)
		}
		b.WriteString("\treturn c\n}\n")
	} else {
		fmt.Fprintf(b, "func new%s(rt *crud.Client, url string) %s {\n", g.Type, g.Type)
		fmt.Fprintf(b, "\tg := %s{rt: rt, url: url}\n", g.Type)
		for _, c := range g.Fixed {
			fmt.Fprintf(b, "\tg.%s = new%s(rt, url+%q)\n", c.Field, c.Type, "/"+c.Literal)
		}
		b.WriteString("\treturn g\n}\n")
	}

	recv := "g " + g.Type
	if g.Root {
		recv = "c *Client"
	}
	self := recv[:1]

	for _, op := range g.Ops {
		b.WriteString("\n// " + op.Doc + "\n")
		switch op.Kind {
		case routes.CreateOne:
			fmt.Fprintf(b, "func (%s) Post(ctx context.Context, value %s) (%s, error) {\n", recv, op.EntityType, op.EntityType)
			fmt.Fprintf(b, "\treturn crud.CreateOne(ctx, %s.rt, %s.url, %s, value)\n}\n", self, self, op.EntityVar)
		case routes.ReadOne:
			fmt.Fprintf(b, "func (%s) Get(ctx context.Context) (%s, error) {\n", recv, op.EntityType)
			fmt.Fprintf(b, "\treturn crud.ReadOne[%s](ctx, %s.rt, %s.url, %s)\n}\n", op.EntityType, self, self, op.EntityVar)
		case routes.ReplaceOne:
			fmt.Fprintf(b, "func (%s) Put(ctx context.Context, value %s) (%s, error) {\n", recv, op.EntityType, op.EntityType)
			fmt.Fprintf(b, "\treturn crud.ReplaceOne(ctx, %s.rt, %s.url, %s, value)\n}\n", self, self, op.EntityVar)
		case routes.UpdateOne:
			fmt.Fprintf(b, "func (%s) Patch(ctx context.Context, patch map[string]any) (%s, error) {\n", recv, op.EntityType)
			fmt.Fprintf(b, "\treturn crud.UpdateOne[%s](ctx, %s.rt, %s.url, %s, patch)\n}\n", op.EntityType, self, self, op.EntityVar)
		case routes.DeleteOne:
			fmt.Fprintf(b, "func (%s) Delete(ctx context.Context) error {\n", recv)
			fmt.Fprintf(b, "\treturn crud.DeleteOne(ctx, %s.rt, %s.url)\n}\n", self, self)
		case routes.ReadMany:
			fmt.Fprintf(b, "func (%s) GetAll(ctx context.Context) iter.Seq2[%s, error] {\n", recv, op.EntityType)
			fmt.Fprintf(b, "\treturn crud.ReadMany[%s](ctx, %s.rt, %s.url, %s)\n}\n", op.EntityType, self, self, op.EntityVar)
		case routes.DeleteMany:
			fmt.Fprintf(b, "func (%s) DeleteAll(ctx context.Context) error {\n", recv)
			fmt.Fprintf(b, "\treturn crud.DeleteMany(ctx, %s.rt, %s.url)\n}\n", self, self)
		}
	}

	if ce := g.Capture; ce != nil {
		fmt.Fprintf(b, "\n// %s narrows the client to the entity identified by %s.\n", ce.Method, ce.Param)
		fmt.Fprintf(b, "func (%s) %s(%s string) %s {\n", recv, ce.Method, ce.Param, ce.Type)
		fmt.Fprintf(b, "\treturn new%s(%s.rt, %s.url+\"/\"+url.PathEscape(%s))\n}\n", ce.Type, self, self, ce.Param)
	}
}
