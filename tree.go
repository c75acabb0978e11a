package thicket

import (
	"reflect"

	"go.uber.org/zap"
)

// Node is anything that can take part in a scene hierarchy. Types join the
// hierarchy by embedding Tree.
type Node interface {
	TreeNode() *Tree
}

// Tree holds an ordered list of child references. Children are NOT owned:
// a Tree only models containment and iteration order. Whoever created the
// nodes (usually a Scene) controls their lifetime.
//
// A node may be the child of several parents, and the same child may appear
// more than once. Cycles are not rejected; traversing a cyclic graph never
// terminates.
type Tree struct {
	children []Node
}

// TreeNode returns the embedded tree. It satisfies Node.
func (t *Tree) TreeNode() *Tree {
	return t
}

// AddChild appends a non-owning reference to child. Nil children are ignored.
func (t *Tree) AddChild(child Node) {
	if isNilNode(child) {
		return
	}
	if globalDebug {
		debugCheckCycle(t, child)
	}
	t.children = append(t.children, child)
	if globalDebug {
		debugCheckChildCount(t)
	}
}

// RemoveChild removes the first reference to child. No-op if absent.
// Uses copy+nil to avoid retaining a dangling reference in the backing array.
func (t *Tree) RemoveChild(child Node) {
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children[len(t.children)-1] = nil
			t.children = t.children[:len(t.children)-1]
			return
		}
	}
}

// removeAll removes every reference to child and reports how many were removed.
func (t *Tree) removeAll(child Node) int {
	kept := t.children[:0]
	removed := 0
	for _, c := range t.children {
		if c == child {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(t.children); i++ {
		t.children[i] = nil
	}
	t.children = kept
	return removed
}

// Children returns the live child list. Callers may reorder it between
// frames but must not mutate it during a traversal.
func (t *Tree) Children() []Node {
	return t.children
}

// NumChildren returns the number of child references.
func (t *Tree) NumChildren() int {
	return len(t.children)
}

// ChildAt returns the child at the given index.
func (t *Tree) ChildAt(index int) Node {
	return t.children[index]
}

// Traverse walks the hierarchy below root breadth-first and calls visit for
// every node that satisfies T. The root itself is not visited. A node
// reachable through several parents is visited once per edge. Nodes that do
// not satisfy T are skipped, but their children are still walked.
//
// Adding or removing children while a traversal is running is not allowed.
func Traverse[T any](root Node, visit func(T)) {
	TraverseAll(root, func(n Node) {
		if typed, ok := n.(T); ok {
			visit(typed)
		}
	})
}

// TraverseAll walks the hierarchy below root breadth-first and calls visit
// for every node. The same rules as Traverse apply.
func TraverseAll(root Node, visit func(Node)) {
	if isNilNode(root) || visit == nil {
		return
	}
	queue := append([]Node(nil), root.TreeNode().children...)
	for len(queue) > 0 {
		current := queue[0]
		queue[0] = nil
		queue = queue[1:]

		visit(current)
		queue = append(queue, current.TreeNode().children...)
	}
}

// isNilNode reports whether n is nil or an interface wrapping a nil pointer.
func isNilNode(n Node) bool {
	return isNilValue(n)
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// reaches reports whether target is reachable from start (inclusive) by
// following child edges. Each node is expanded at most once.
func reaches(start, target *Tree) bool {
	found := false
	eachTree(start, func(t *Tree) {
		if t == target {
			found = true
		}
	})
	return found
}

// eachTree calls fn once for every distinct tree reachable from start,
// start included. Safe on cyclic graphs.
func eachTree(start *Tree, fn func(*Tree)) {
	seen := map[*Tree]bool{}
	stack := []*Tree{start}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[t] {
			continue
		}
		seen[t] = true
		fn(t)
		for _, c := range t.children {
			stack = append(stack, c.TreeNode())
		}
	}
}

// SceneTree is a named grouping node with no components.
type SceneTree struct {
	Tree
	Name string
}

// NewSceneTree creates an empty named grouping node.
func NewSceneTree(name string) *SceneTree {
	return &SceneTree{Name: name}
}

func debugCheckCycle(parent *Tree, child Node) {
	if reaches(child.TreeNode(), parent) {
		Logger().Warn("adding child would create a cycle; traversal will not terminate",
			zap.Int("parentChildren", len(parent.children)))
	}
}
