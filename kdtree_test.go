package cluster2d

import (
	"math/rand/v2"
	"sort"
	"testing"
)

// bruteRange returns the payloads of all points inside r, sorted.
func bruteRange(points []Point, r Rect) []int {
	var out []int
	for i, p := range points {
		if r.Contains(p) {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func payloads(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Payload
	}
	sort.Ints(out)
	return out
}

func intsEqual(a, b []int) bool {
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

func randomPoints(n int, seed uint64, scale float64) []Point {
	rng := rand.New(rand.NewPCG(seed, seed))
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Pt(rng.Float64()*scale, rng.Float64()*scale)
	}
	return pts
}

// --- Construction tests ---

func TestKDTree_Build_BasicProperties(t *testing.T) {
	pts := []Point{{0, 0}, {1, 0}, {2, 0}, {0, 3}, {1, 3}, {2, 3}}
	tree := BuildKDTree(pts, 2)

	if tree.Len() != len(pts) {
		t.Errorf("Len() = %d, want %d", tree.Len(), len(pts))
	}
	if tree.NumNodes() < 3 {
		t.Errorf("NumNodes() = %d, want >= 3 for 6 points with leafSize 2", tree.NumNodes())
	}
	b, ok := tree.Bounds()
	if !ok {
		t.Fatal("Bounds() reported empty tree")
	}
	want := Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 3}
	if b != want {
		t.Errorf("Bounds() = %+v, want %+v", b, want)
	}

	// Every payload comes back exactly once from an all-covering query.
	got := payloads(tree.QueryRange(want, nil))
	if !intsEqual(got, []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("full query payloads = %v, want 0..5", got)
	}
}

func TestKDTree_Empty(t *testing.T) {
	for name, tree := range map[string]*KDTree{
		"built":       BuildKDTree(nil, 4),
		"incremental": NewKDTree(4),
	} {
		if tree.Len() != 0 {
			t.Errorf("%s: Len() = %d, want 0", name, tree.Len())
		}
		if got := tree.QueryRange(Rect{-1, -1, 1, 1}, nil); len(got) != 0 {
			t.Errorf("%s: query on empty tree returned %d entries", name, len(got))
		}
		if _, ok := tree.Bounds(); ok {
			t.Errorf("%s: Bounds() ok on empty tree", name)
		}
		if tree.Depth() != 0 {
			t.Errorf("%s: Depth() = %d, want 0", name, tree.Depth())
		}
	}
}

func TestKDTree_DefaultLeafSize(t *testing.T) {
	if got := NewKDTree(0).LeafSize(); got != DefaultLeafSize {
		t.Errorf("LeafSize() = %d, want %d", got, DefaultLeafSize)
	}
}

func TestKDTree_LeafSizeLargerThanN(t *testing.T) {
	tree := BuildKDTree([]Point{{1, 2}, {3, 4}}, 100)
	if tree.NumNodes() != 1 {
		t.Errorf("expected 1 node for leafSize > n, got %d", tree.NumNodes())
	}
}

func TestKDTree_BuildIsBalanced(t *testing.T) {
	pts := randomPoints(4096, 7, 1000)
	tree := BuildKDTree(pts, 8)
	// 4096/8 = 512 leaves -> 10 levels for a perfect median split.
	if d := tree.Depth(); d > 12 {
		t.Errorf("Depth() = %d, want <= 12 for a median-split build", d)
	}
}

// --- Duplicate handling ---

func TestKDTree_Duplicates(t *testing.T) {
	pts := make([]Point, 50)
	for i := range pts {
		pts[i] = Pt(5, 5)
	}
	pts = append(pts, Pt(6, 6))

	for name, tree := range map[string]*KDTree{
		"built":       BuildKDTree(pts, 4),
		"incremental": insertAll(NewKDTree(4), pts),
	} {
		got := tree.QueryRange(Rect{5, 5, 5, 5}, nil)
		if len(got) != 50 {
			t.Errorf("%s: query at duplicate coordinate returned %d entries, want 50", name, len(got))
		}
		got = tree.QueryRange(Rect{4, 4, 7, 7}, nil)
		if len(got) != 51 {
			t.Errorf("%s: covering query returned %d entries, want 51", name, len(got))
		}
	}
}

func TestKDTree_HeavyMinimumSplit(t *testing.T) {
	// More than half the bucket shares the minimum X, forcing the split
	// just above the minimum.
	tree := NewKDTree(4)
	for i := 0; i < 4; i++ {
		tree.Insert(Pt(0, 0), i)
	}
	tree.Insert(Pt(1, 0), 4)

	if tree.NumNodes() != 3 {
		t.Fatalf("NumNodes() = %d, want 3 after one split", tree.NumNodes())
	}
	got := payloads(tree.QueryRange(Rect{0, 0, 0, 0}, nil))
	if !intsEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("payloads at origin = %v, want [0 1 2 3]", got)
	}
}

func insertAll(tree *KDTree, pts []Point) *KDTree {
	for i, p := range pts {
		tree.Insert(p, i)
	}
	return tree
}

// --- Range query tests ---

func TestKDTree_QueryRange_BruteForceMatch(t *testing.T) {
	pts := randomPoints(500, 42, 100)
	rng := rand.New(rand.NewPCG(1, 2))

	trees := map[string]*KDTree{
		"built/leaf1":        BuildKDTree(pts, 1),
		"built/leaf16":       BuildKDTree(pts, 16),
		"incremental/leaf1":  insertAll(NewKDTree(1), pts),
		"incremental/leaf16": insertAll(NewKDTree(16), pts),
	}

	for q := 0; q < 200; q++ {
		x, y := rng.Float64()*110-5, rng.Float64()*110-5
		r := Rect{MinX: x, MinY: y, MaxX: x + rng.Float64()*30, MaxY: y + rng.Float64()*30}
		want := bruteRange(pts, r)
		for name, tree := range trees {
			got := payloads(tree.QueryRange(r, nil))
			if !intsEqual(got, want) {
				t.Fatalf("%s: query %+v returned %d entries, want %d", name, r, len(got), len(want))
			}
		}
	}
}

func TestKDTree_QueryRange_ClosedBoundaries(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {0, 10}, {10, 10}, {5, 5}}
	tree := BuildKDTree(pts, 1)
	got := payloads(tree.QueryRange(Rect{0, 0, 10, 10}, nil))
	if !intsEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("closed rectangle query = %v, want all 5 points", got)
	}
	got = payloads(tree.QueryRange(SquareAround(Pt(5, 5), 0), nil))
	if !intsEqual(got, []int{4}) {
		t.Errorf("zero-width query = %v, want [4]", got)
	}
}

func TestKDTree_QueryRange_AppendsToDst(t *testing.T) {
	tree := BuildKDTree([]Point{{1, 1}, {2, 2}}, 4)
	dst := []Entry{{Point: Pt(-1, -1), Payload: 99}}
	dst = tree.QueryRange(Rect{0, 0, 3, 3}, dst)
	if len(dst) != 3 || dst[0].Payload != 99 {
		t.Errorf("QueryRange did not append to dst: %+v", dst)
	}
}

func TestKDTree_VisitRange_StopsEarly(t *testing.T) {
	tree := BuildKDTree(randomPoints(100, 3, 10), 4)
	calls := 0
	tree.VisitRange(Rect{0, 0, 10, 10}, func(Entry) bool {
		calls++
		return calls < 5
	})
	if calls != 5 {
		t.Errorf("visitor called %d times, want 5", calls)
	}
}

func TestKDTree_SortedInsertsStayCorrect(t *testing.T) {
	// Sorted inserts unbalance the tree; queries must still be exact.
	pts := make([]Point, 5000)
	for i := range pts {
		pts[i] = Pt(float64(i), float64(i%7))
	}
	tree := insertAll(NewKDTree(4), pts)
	r := Rect{MinX: 1000, MinY: 0, MaxX: 1100, MaxY: 3}
	got := payloads(tree.QueryRange(r, nil))
	want := bruteRange(pts, r)
	if !intsEqual(got, want) {
		t.Errorf("query returned %d entries, want %d", len(got), len(want))
	}
}
