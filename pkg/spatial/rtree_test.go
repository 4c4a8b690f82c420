package spatial

import (
	"sort"
	"testing"

	"github.com/indlayout/engine/pkg/geom"
)

func box(minX, minY, maxX, maxY float64) geom.Bounds {
	return geom.Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func TestQueryEnvelopeFindsOverlapping(t *testing.T) {
	entries := []Entry{
		{Index: 0, Box: box(0, 0, 10, 10)},
		{Index: 1, Box: box(20, 20, 30, 30)},
		{Index: 2, Box: box(5, 5, 15, 15)},
	}
	ix := Build(entries)
	got := ix.QueryEnvelope(box(0, 0, 12, 12))
	sort.Ints(got)
	want := []int{0, 2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("QueryEnvelope() = %v, want %v", got, want)
	}
}

func TestQueryEnvelopeNoFalseNegatives(t *testing.T) {
	var entries []Entry
	for i := 0; i < 200; i++ {
		x := float64(i)
		entries = append(entries, Entry{Index: i, Box: box(x, x, x+1, x+1)})
	}
	ix := Build(entries)
	got := ix.QueryEnvelope(box(50, 50, 51, 51))
	found := false
	for _, idx := range got {
		if idx == 50 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected entry 50 in results, got %v", got)
	}
}

func TestQueryNearestOrdersByDistance(t *testing.T) {
	entries := []Entry{
		{Index: 0, Box: box(0, 0, 1, 1)},
		{Index: 1, Box: box(100, 100, 101, 101)},
		{Index: 2, Box: box(2, 2, 3, 3)},
	}
	ix := Build(entries)
	got := ix.QueryNearest(geom.Point{X: 0, Y: 0}, 2)
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("QueryNearest() = %v, want [0 2]", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	ix := Build(nil)
	if got := ix.QueryEnvelope(box(0, 0, 1, 1)); len(got) != 0 {
		t.Fatalf("expected no results from empty index, got %v", got)
	}
}
