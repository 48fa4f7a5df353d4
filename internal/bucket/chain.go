// Package bucket implements the singly-addressed, doubly-linked collision
// chain that a divchash slot points at. A chain holds zero or more records
// of identical key/value size; every record is a heap-allocated copy of the
// caller's key and value bytes.
//
// Node linking/unlinking here is grounded on the metaNode ring management in
// Voskan/arena-cache/internal/clockpro (append/remove), adapted from a
// circular single list to a plain doubly-linked chain keyed by byte-block
// key/value instead of CLOCK-Pro replacement state — this package carries no
// eviction policy at all, only chain membership.
//
// © 2025 divchash authors. MIT License.
package bucket

// Node is one record in a bucket chain. Key and Value are owned copies: they
// are released exactly once, by FreeNode or FreeAll.
type Node struct {
	Key   []byte
	Value []byte
	prev  *Node
	next  *Node
}

// KeyEqual reports whether a and b should be considered the same key. A nil
// KeyEqual falls back to byte-wise equality.
type KeyEqual func(a, b []byte) bool

// FreeFunc releases external memory associated with a stored key or value
// block. A nil FreeFunc means the byte block itself is the whole payload.
type FreeFunc func([]byte)

func defaultEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Search performs a linear scan of the chain starting at head, looking for a
// node whose key equals key per eq (or byte-wise equality when eq is nil).
// Returns nil if not found.
func Search(head *Node, key []byte, eq KeyEqual) *Node {
	if eq == nil {
		eq = defaultEqual
	}
	for n := head; n != nil; n = n.next {
		if eq(n.Key, key) {
			return n
		}
	}
	return nil
}

// Prepend heap-allocates a new node carrying copies of key and value and
// links it at the head of the chain. Returns the new head.
func Prepend(head *Node, key, value []byte) *Node {
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)

	n := &Node{Key: k, Value: v}
	n.next = head
	if head != nil {
		head.prev = n
	}
	return n
}

// PrependNode links an already-allocated node (no copy, no realloc) at the
// head of the chain. Used by the growth engine to move existing nodes between
// chains without touching their payload.
func PrependNode(head, n *Node) *Node {
	n.prev = nil
	n.next = head
	if head != nil {
		head.prev = n
	}
	return n
}

// Detach unlinks n from the chain without freeing its payload. Returns the
// (possibly new) head of the chain.
func Detach(head *Node, n *Node) *Node {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
	return head
}

// FreeNode applies keyFree/valueFree when non-nil, then drops the node's
// byte blocks. keyFree/valueFree are invoked before the node becomes
// unreachable; a nil callback means the bytes in the table are the whole
// payload and nothing external needs releasing.
func FreeNode(n *Node, keyFree, valueFree FreeFunc) {
	if keyFree != nil {
		keyFree(n.Key)
	}
	if valueFree != nil {
		valueFree(n.Value)
	}
	n.Key = nil
	n.Value = nil
	n.prev, n.next = nil, nil
}

// FreeAll applies FreeNode to every node in the chain headed by head.
func FreeAll(head *Node, keyFree, valueFree FreeFunc) {
	for n := head; n != nil; {
		next := n.next
		FreeNode(n, keyFree, valueFree)
		n = next
	}
}

// Len counts nodes in the chain headed by head. Used only by tests and
// diagnostics — the hot path tracks element_count separately (§3 invariant:
// element_count equals the sum of chain lengths).
func Len(head *Node) int {
	n := 0
	for c := head; c != nil; c = c.next {
		n++
	}
	return n
}

// Next exposes chain traversal for callers that need to walk every node (the
// growth engine's rehashing pass, and diagnostics).
func Next(n *Node) *Node { return n.next }
