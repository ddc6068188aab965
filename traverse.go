package arbor

import "iter"

// TraversalOrder selects the visiting order for [Transform.Traverse].
type TraversalOrder uint8

const (
	// PreOrder visits a node before any of its descendants.
	PreOrder TraversalOrder = iota
	// PostOrder visits a node only after all of its descendants.
	PostOrder
)

// Traverse returns a lazy, single-pass sequence over this transform's
// subtree, rooted at the owner and including it. The sequence is forward-only
// and not restartable; mutating the hierarchy while ranging over it is
// undefined — snapshot the entities first if the visit mutates structure.
func (t *Transform) Traverse(order TraversalOrder) iter.Seq2[Entity, *Transform] {
	switch order {
	case PostOrder:
		return t.traversePostOrder()
	default:
		return t.traversePreOrder()
	}
}

// traversePreOrder walks the subtree with an explicit stack, pushing
// children right-to-left so the leftmost child is visited first.
func (t *Transform) traversePreOrder() iter.Seq2[Entity, *Transform] {
	root := t.Owner()
	return func(yield func(Entity, *Transform) bool) {
		if !root.Valid() {
			return
		}
		stack := []Entity{root}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ct := cur.scene.transformOf(cur)
			if !yield(cur, ct) {
				return
			}
			for i := len(ct.children) - 1; i >= 0; i-- {
				if ct.children[i].Valid() {
					stack = append(stack, ct.children[i])
				}
			}
		}
	}
}

// traversePostOrder walks the subtree with an explicit stack plus a
// visited set that distinguishes "children queued" from "ready to yield":
// the first time a node surfaces its children are pushed; the second time,
// every descendant has already been yielded and the node follows.
func (t *Transform) traversePostOrder() iter.Seq2[Entity, *Transform] {
	root := t.Owner()
	return func(yield func(Entity, *Transform) bool) {
		if !root.Valid() {
			return
		}
		visited := make(map[Entity]struct{})
		stack := []Entity{root}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			if _, seen := visited[cur]; seen {
				stack = stack[:len(stack)-1]
				if !yield(cur, cur.scene.transformOf(cur)) {
					return
				}
				continue
			}
			visited[cur] = struct{}{}
			ct := cur.scene.transformOf(cur)
			for i := len(ct.children) - 1; i >= 0; i-- {
				if ct.children[i].Valid() {
					stack = append(stack, ct.children[i])
				}
			}
		}
	}
}
