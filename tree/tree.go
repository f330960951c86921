// Package tree implements DomainTree, a generic name-indexed index
// supporting exact match and longest-prefix (partial) match lookup keyed
// by DNS names. It backs both the authoritative zone table (zone name ->
// MemoryZone) and the forwarder table (zone name -> upstream address).
package tree

import "github.com/xdnsproj/xdns/dnsname"

// MatchFlag describes how Find/FindNodeExt resolved a name.
type MatchFlag int

const (
	// NotFound means no value-bearing ancestor covers the queried name.
	NotFound MatchFlag = iota
	// ExactMatch means a node stores the name verbatim and has a value.
	ExactMatch
	// PartialMatch means an ancestor of the queried name was returned
	// instead of an exact hit: the deepest value-bearing one for Find;
	// for FindNodeExt, the one that halted the walk or, if none did, the
	// deepest value-bearing one reached.
	PartialMatch
)

type node[V any] struct {
	label    string
	parent   *node[V]
	children map[string]*node[V]

	hasValue bool
	value    V
	callback bool
}

// Node is an opaque handle to a tree node, returned by Insert and by
// lookups, so callers can flip the delegation-cut callback flag or read
// the stored value.
type Node[V any] struct {
	n *node[V]
}

// SetCallback sets or clears the node's callback flag. Zone code uses
// this to mark an NS-bearing owner as a delegation cut.
func (h Node[V]) SetCallback(v bool) {
	h.n.callback = v
}

// Callback reports the node's callback flag.
func (h Node[V]) Callback() bool {
	return h.n.callback
}

// Value returns the node's stored value and whether it has one.
func (h Node[V]) Value() (V, bool) {
	return h.n.value, h.n.hasValue
}

// SetValue replaces the node's stored value.
func (h Node[V]) SetValue(v V) {
	h.n.value = v
	h.n.hasValue = true
}

// FindResult is the outcome of Find: a match flag plus, for ExactMatch
// and PartialMatch, the node that produced it.
type FindResult[V any] struct {
	Flag MatchFlag
	node *node[V]
}

// Value returns the stored value of the matched node. Callers should
// only use this when Flag != NotFound.
func (r FindResult[V]) Value() (V, bool) {
	if r.node == nil {
		var zero V
		return zero, false
	}
	return r.node.value, r.node.hasValue
}

// Node returns the handle to the matched node, if any.
func (r FindResult[V]) Node() (Node[V], bool) {
	if r.node == nil {
		return Node[V]{}, false
	}
	return Node[V]{r.node}, true
}

// DomainTree is a map from dnsname.Name to a value of type V, supporting
// exact and longest-prefix-match lookup. It is not safe for concurrent
// use; callers hold their own reader/writer lock around it.
type DomainTree[V any] struct {
	root *node[V]
}

// New returns an empty DomainTree.
func New[V any]() *DomainTree[V] {
	return &DomainTree[V]{root: &node[V]{children: map[string]*node[V]{}}}
}

// labelPath returns a name's labels ordered root-most first, i.e. the
// order the tree is walked in during descent.
func labelPath(name dnsname.Name) []string {
	labels := name.Labels()
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}

// Insert creates or replaces the node for name, returning its handle.
func (t *DomainTree[V]) Insert(name dnsname.Name, value V) Node[V] {
	cur := t.root
	for _, label := range labelPath(name) {
		child, ok := cur.children[label]
		if !ok {
			child = &node[V]{label: label, parent: cur, children: map[string]*node[V]{}}
			cur.children[label] = child
		}
		cur = child
	}
	cur.value = value
	cur.hasValue = true
	return Node[V]{cur}
}

// CallbackFunc is invoked by FindNodeExt at every value-bearing,
// callback-flagged node visited during descent toward the queried name,
// shallowest first, including a node that turns out to be the exact
// match. If it returns true the walk halts and the visited node is
// reported with PartialMatch.
type CallbackFunc[V any] func(n Node[V]) bool

// FindNodeExt walks from the root toward name, invoking cb at every
// value-bearing node on the path whose callback flag is set, including
// an eventual exact match. If cb returns true the walk halts immediately
// and that node is returned with PartialMatch; this is how zone lookup
// detects a delegation cut (or a query that lands exactly on one) during
// a single descent. The flag gate keeps the zone apex, which always owns
// an NS RRset but is never a cut, from tripping the delegation callback
// on every query. If cb never fires, the walk completes normally and
// reports ExactMatch for a full-depth hit.
func (t *DomainTree[V]) FindNodeExt(name dnsname.Name, cb CallbackFunc[V]) FindResult[V] {
	cur := t.root
	path := labelPath(name)

	for _, label := range path {
		child, ok := cur.children[label]
		if !ok {
			break
		}
		cur = child
		if cur.hasValue && cur.callback && cb != nil && cb(Node[V]{cur}) {
			return FindResult[V]{Flag: PartialMatch, node: cur}
		}
	}

	if cur.hasValue && depthOf(cur) == len(path) {
		return FindResult[V]{Flag: ExactMatch, node: cur}
	}
	// No callback hit and no exact match: report the deepest value-bearing
	// ancestor actually reached, if any, as a plain (non-callback) partial
	// match so GlueOkFind-style lookups without a callback still resolve
	// to the closest enclosing value.
	for n := cur; n != nil && n != t.root; n = n.parent {
		if n.hasValue {
			return FindResult[V]{Flag: PartialMatch, node: n}
		}
	}
	return FindResult[V]{Flag: NotFound}
}

func depthOf[V any](n *node[V]) int {
	d := 0
	for p := n; p.parent != nil; p = p.parent {
		d++
	}
	return d
}

// namePathMatches reports whether n is exactly the node reached by
// walking the full path (i.e. descent did not stop short at an
// intermediate ancestor because of a missing child).
func namePathMatches[V any](n *node[V], path []string) bool {
	return depthOf(n) == len(path)
}

// Find performs a plain longest-prefix lookup with no visitor callback:
// ExactMatch if name was inserted verbatim, otherwise PartialMatch on the
// deepest value-bearing ancestor that is a subdomain-prefix of name, or
// NotFound if there is none. This is what the zone table (covering-zone
// lookup) and the forwarder table (longest-match upstream selection) use;
// neither sets a per-node callback flag, so PartialMatch here does not
// gate on it. The callback flag only matters to FindNodeExt's halting
// walk, which is how zone lookup detects delegation cuts.
func (t *DomainTree[V]) Find(name dnsname.Name) FindResult[V] {
	cur := t.root
	path := labelPath(name)
	var deepestAncestor *node[V]

	for _, label := range path {
		child, ok := cur.children[label]
		if !ok {
			break
		}
		cur = child
		if cur.hasValue {
			deepestAncestor = cur
		}
	}

	if deepestAncestor == nil {
		return FindResult[V]{Flag: NotFound}
	}
	if namePathMatches(deepestAncestor, path) {
		return FindResult[V]{Flag: ExactMatch, node: deepestAncestor}
	}
	return FindResult[V]{Flag: PartialMatch, node: deepestAncestor}
}
