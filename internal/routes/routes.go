// Package routes models a backend's route table and folds it into a prefix
// tree keyed by path segment. The client emitter walks the tree; the tree
// shape is independent of the order route entries arrive in.
package routes

import (
	"fmt"
	"strings"
)

// OpKind enumerates the CRUD operation kinds a route can expose.
type OpKind int

const (
	CreateOne OpKind = iota
	ReplaceOne
	UpdateOne
	DeleteOne
	DeleteMany
	ReadOne
	ReadMany
)

func (k OpKind) String() string {
	switch k {
	case CreateOne:
		return "create"
	case ReplaceOne:
		return "replace"
	case UpdateOne:
		return "update"
	case DeleteOne:
		return "delete"
	case DeleteMany:
		return "deleteAll"
	case ReadOne:
		return "get"
	case ReadMany:
		return "list"
	default:
		return "unknown"
	}
}

// Operation is one CRUD operation tagged with the entity it moves.
// Delete operations carry no entity payload but keep the name for context.
type Operation struct {
	Kind   OpKind
	Entity string
}

// Segment is one path component. A captured segment binds a runtime value
// under Text's parameter name; a fixed segment matches Text literally. The two
// are distinct edge kinds even when the text collides.
type Segment struct {
	Capture bool
	Text    string
}

// Entry is one route: a segment path and the operation mounted there.
type Entry struct {
	Path []Segment
	Op   Operation
}

// ParsePath splits a "/blog/posts/:id" style path into segments. Components
// starting with ':' become captures.
func ParsePath(path string) []Segment {
	var segs []Segment
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		if name, ok := strings.CutPrefix(part, ":"); ok {
			segs = append(segs, Segment{Capture: true, Text: name})
		} else {
			segs = append(segs, Segment{Text: part})
		}
	}
	return segs
}

// PathString renders a segment path back to "/blog/posts/:id" form.
func PathString(path []Segment) string {
	var b strings.Builder
	for _, seg := range path {
		b.WriteByte('/')
		if seg.Capture {
			b.WriteByte(':')
		}
		b.WriteString(seg.Text)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// CaptureEdge is the single captured child a node may have. All routes passing
// through one tree position must agree on the parameter name.
type CaptureEdge struct {
	Param string
	Node  *Node
}

// Node is one position in the route tree: the operations mounted at exactly
// this path, fixed children by literal, and at most one captured child.
type Node struct {
	Ops     []Operation
	Fixed   map[string]*Node
	Capture *CaptureEdge
}

func newNode() *Node {
	return &Node{Fixed: make(map[string]*Node)}
}

// ConflictingCaptureError reports two captured segments with different
// parameter names at the same tree position.
type ConflictingCaptureError struct {
	Path     string
	Existing string
	New      string
}

func (e *ConflictingCaptureError) Error() string {
	return fmt.Sprintf("conflicting capture names at %s: :%s vs :%s", e.Path, e.Existing, e.New)
}

// Build folds the route entries into a prefix tree. Insertion is commutative:
// any permutation of entries yields the same tree. Identical entries dedupe;
// the same operation kind mounted twice at one node with different entities is
// rejected as inconsistent input.
func Build(entries []Entry) (*Node, error) {
	root := newNode()
	for _, entry := range entries {
		node := root
		for i, seg := range entry.Path {
			if seg.Capture {
				if node.Capture == nil {
					node.Capture = &CaptureEdge{Param: seg.Text, Node: newNode()}
				} else if node.Capture.Param != seg.Text {
					return nil, &ConflictingCaptureError{
						Path:     PathString(entry.Path[:i+1]),
						Existing: node.Capture.Param,
						New:      seg.Text,
					}
				}
				node = node.Capture.Node
				continue
			}
			child, ok := node.Fixed[seg.Text]
			if !ok {
				child = newNode()
				node.Fixed[seg.Text] = child
			}
			node = child
		}
		if err := addOp(node, entry); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func addOp(node *Node, entry Entry) error {
	for _, op := range node.Ops {
		if op.Kind != entry.Op.Kind {
			continue
		}
		if op.Entity == entry.Op.Entity {
			return nil // duplicate entry, keep the tree a set
		}
		return fmt.Errorf("%s: %s mounted for both %s and %s",
			PathString(entry.Path), op.Kind, op.Entity, entry.Op.Entity)
	}
	node.Ops = append(node.Ops, entry.Op)
	return nil
}

// Op returns the operation of the given kind at this node, if mounted.
func (n *Node) Op(kind OpKind) (Operation, bool) {
	for _, op := range n.Ops {
		if op.Kind == kind {
			return op, true
		}
	}
	return Operation{}, false
}
