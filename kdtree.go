package cluster2d

import (
	"math"
	"sort"
)

// DefaultLeafSize is the bucket size used when a KD-tree is created with a
// non-positive leaf size.
const DefaultLeafSize = 16

// KDTree is a bucketed 2-D KD-tree. Leaves hold up to leafSize entries;
// a full leaf splits at the median of the axis with the greatest spread.
//
// Nodes live in a flat slice and reference their children by index:
//   - left/right are -1 for leaves
//   - bounds always cover every entry below the node
//
// A leaf whose entries all share the same coordinates never splits, so any
// number of duplicates can be stored.
type KDTree struct {
	nodes    []kdNode
	leafSize int
	n        int
}

type kdNode struct {
	bounds      Rect
	entries     []Entry // leaves only
	left, right int
	splitDim    int
	splitVal    float64
}

func (nd *kdNode) isLeaf() bool { return nd.left < 0 }

// NewKDTree returns an empty tree for incremental inserts.
func NewKDTree(leafSize int) *KDTree {
	if leafSize < 1 {
		leafSize = DefaultLeafSize
	}
	return &KDTree{leafSize: leafSize}
}

// BuildKDTree bulk-loads points into a balanced tree. Each entry's payload
// is the point's index in points.
func BuildKDTree(points []Point, leafSize int) *KDTree {
	t := NewKDTree(leafSize)
	if len(points) == 0 {
		return t
	}
	entries := make([]Entry, len(points))
	for i, p := range points {
		entries[i] = Entry{Point: p, Payload: i}
	}
	t.nodes = make([]kdNode, 0, kdMaxNodes(len(points), t.leafSize))
	t.buildNode(entries)
	t.n = len(points)
	return t
}

// kdMaxNodes returns a capacity hint for a tree of n points.
func kdMaxNodes(n, leafSize int) int {
	leaves := (n + leafSize - 1) / leafSize
	return 2*leaves + 1
}

// buildNode appends a node for entries (and, recursively, its subtree)
// and returns its index.
func (t *KDTree) buildNode(entries []Entry) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, kdNode{bounds: boundsOf(entries), left: -1, right: -1})

	// Leaves get a capped slice so a later Insert reallocates instead of
	// writing into a sibling's part of the shared array.
	if len(entries) <= t.leafSize {
		t.nodes[id].entries = entries[:len(entries):len(entries)]
		return id
	}
	dim, val, mid, ok := chooseSplit(entries, t.nodes[id].bounds)
	if !ok {
		t.nodes[id].entries = entries[:len(entries):len(entries)]
		return id
	}

	left := t.buildNode(entries[:mid])
	right := t.buildNode(entries[mid:])
	nd := &t.nodes[id]
	nd.left, nd.right = left, right
	nd.splitDim, nd.splitVal = dim, val
	return id
}

// Insert adds p with the given payload.
func (t *KDTree) Insert(p Point, payload int) {
	t.n++
	e := Entry{Point: p, Payload: payload}
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, kdNode{
			bounds:  Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y},
			entries: []Entry{e},
			left:    -1,
			right:   -1,
		})
		return
	}

	id := 0
	for {
		nd := &t.nodes[id]
		nd.bounds.extend(p)
		if nd.isLeaf() {
			nd.entries = append(nd.entries, e)
			if len(nd.entries) > t.leafSize {
				t.splitLeaf(id)
			}
			return
		}
		if coord(p, nd.splitDim) < nd.splitVal {
			id = nd.left
		} else {
			id = nd.right
		}
	}
}

// splitLeaf turns an overfull leaf into an internal node with two leaves.
func (t *KDTree) splitLeaf(id int) {
	entries := t.nodes[id].entries
	dim, val, mid, ok := chooseSplit(entries, t.nodes[id].bounds)
	if !ok {
		return
	}

	// Copy so the children do not alias the parent's backing array.
	lo := append([]Entry(nil), entries[:mid]...)
	hi := append([]Entry(nil), entries[mid:]...)

	left := len(t.nodes)
	t.nodes = append(t.nodes,
		kdNode{bounds: boundsOf(lo), entries: lo, left: -1, right: -1},
		kdNode{bounds: boundsOf(hi), entries: hi, left: -1, right: -1},
	)
	nd := &t.nodes[id]
	nd.entries = nil
	nd.left, nd.right = left, left+1
	nd.splitDim, nd.splitVal = dim, val
}

// chooseSplit sorts entries along the axis of greatest spread and picks a
// split so that entries[:mid] are strictly below val and entries[mid:] are
// at or above it. Both halves are non-empty. ok is false when every entry
// has the same coordinates.
func chooseSplit(entries []Entry, bounds Rect) (dim int, val float64, mid int, ok bool) {
	spreadX := bounds.MaxX - bounds.MinX
	spreadY := bounds.MaxY - bounds.MinY
	if spreadY > spreadX {
		dim = 1
	}
	if max(spreadX, spreadY) <= 0 {
		return 0, 0, 0, false
	}

	sortByDimension(entries, dim)
	val = coord(entries[len(entries)/2].Point, dim)
	mid = sort.Search(len(entries), func(i int) bool {
		return coord(entries[i].Point, dim) >= val
	})
	if mid == 0 {
		// More than half the bucket sits on the minimum; split just above it.
		lowest := coord(entries[0].Point, dim)
		mid = sort.Search(len(entries), func(i int) bool {
			return coord(entries[i].Point, dim) > lowest
		})
		val = coord(entries[mid].Point, dim)
	}
	return dim, val, mid, true
}

func sortByDimension(entries []Entry, dim int) {
	sort.Slice(entries, func(i, j int) bool {
		return coord(entries[i].Point, dim) < coord(entries[j].Point, dim)
	})
}

func coord(p Point, dim int) float64 {
	if dim == 0 {
		return p.X
	}
	return p.Y
}

func boundsOf(entries []Entry) Rect {
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, e := range entries {
		r.extend(e.Point)
	}
	return r
}

// QueryRange appends every entry inside r to dst.
func (t *KDTree) QueryRange(r Rect, dst []Entry) []Entry {
	t.VisitRange(r, func(e Entry) bool {
		dst = append(dst, e)
		return true
	})
	return dst
}

// VisitRange calls fn for each entry inside r until fn returns false.
// The traversal uses an explicit stack, so trees made lopsided by
// sorted incremental inserts cannot exhaust the goroutine stack.
func (t *KDTree) VisitRange(r Rect, fn func(Entry) bool) {
	if len(t.nodes) == 0 {
		return
	}
	stack := make([]int, 1, 32)
	stack[0] = 0
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := &t.nodes[id]
		if !nd.bounds.Intersects(r) {
			continue
		}
		if nd.isLeaf() {
			for _, e := range nd.entries {
				if r.Contains(e.Point) && !fn(e) {
					return
				}
			}
			continue
		}
		stack = append(stack, nd.right, nd.left)
	}
}

// Len returns the number of entries in the tree.
func (t *KDTree) Len() int { return t.n }

// LeafSize returns the maximum bucket size.
func (t *KDTree) LeafSize() int { return t.leafSize }

// NumNodes returns the total number of nodes (internal + leaf).
func (t *KDTree) NumNodes() int { return len(t.nodes) }

// Bounds returns the bounding box of every entry. ok is false for an empty tree.
func (t *KDTree) Bounds() (r Rect, ok bool) {
	if len(t.nodes) == 0 {
		return Rect{}, false
	}
	return t.nodes[0].bounds, true
}

// Depth returns the number of levels from the root to the deepest leaf.
func (t *KDTree) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}
	type frame struct{ id, depth int }
	deepest := 0
	stack := []frame{{0, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := &t.nodes[f.id]
		if nd.isLeaf() {
			deepest = max(deepest, f.depth)
			continue
		}
		stack = append(stack, frame{nd.left, f.depth + 1}, frame{nd.right, f.depth + 1})
	}
	return deepest
}

// Verify at compile time that *KDTree implements SpatialIndex.
var _ SpatialIndex = (*KDTree)(nil)
