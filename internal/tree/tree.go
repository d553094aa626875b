// Package tree provides depth-first traversal over parent/child hierarchies
// such as the chart of accounts. Traversal is iterative with an explicit
// stack, so arbitrarily deep trees never grow the goroutine stack.
package tree

// ChildrenFunc returns the ordered children of a node.
type ChildrenFunc[T any] func(T) []T

type frame[T any] struct {
	node  T
	depth int
}

// Walk visits every node in pre-order, children in insertion order.
// Returning false from fn stops the walk.
func Walk[T any](roots []T, children ChildrenFunc[T], fn func(node T, depth int) bool) {
	stack := make([]frame[T], 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame[T]{node: roots[i]})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(top.node, top.depth) {
			return
		}
		kids := children(top.node)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame[T]{node: kids[i], depth: top.depth + 1})
		}
	}
}

// Find returns the first node in pre-order matching pred.
func Find[T any](roots []T, children ChildrenFunc[T], pred func(T) bool) (T, bool) {
	var (
		found T
		ok    bool
	)
	Walk(roots, children, func(n T, _ int) bool {
		if pred(n) {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Filter returns every node matching pred, in pre-order.
func Filter[T any](roots []T, children ChildrenFunc[T], pred func(T) bool) []T {
	var out []T
	Walk(roots, children, func(n T, _ int) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Flatten returns every node in pre-order.
func Flatten[T any](roots []T, children ChildrenFunc[T]) []T {
	return Filter(roots, children, func(T) bool { return true })
}

// Leaves returns nodes without children, in pre-order.
func Leaves[T any](roots []T, children ChildrenFunc[T]) []T {
	return Filter(roots, children, func(n T) bool { return len(children(n)) == 0 })
}

// Path returns the chain of nodes from a root down to the first node
// matching pred, inclusive. It returns nil when nothing matches.
func Path[T any](roots []T, children ChildrenFunc[T], pred func(T) bool) []T {
	var path []T
	var result []T
	Walk(roots, children, func(n T, depth int) bool {
		path = append(path[:depth], n)
		if pred(n) {
			result = append([]T(nil), path...)
			return false
		}
		return true
	})
	return result
}
