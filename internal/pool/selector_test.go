package pool

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/abhisek/rhythmiz/internal/catalog"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestPickEmptyPool(t *testing.T) {
	s := NewSelector(fixedRand())
	if _, ok := s.Pick(nil); ok {
		t.Error("Pick on empty pool should report ok=false")
	}
	if _, ok := s.Pick([]Entry{}); ok {
		t.Error("Pick on zero-length pool should report ok=false")
	}
}

func TestPickSingleEntry(t *testing.T) {
	s := NewSelector(fixedRand())
	entries := []Entry{{Pattern: pat("only", catalog.TierEasy, false, catalog.FourFour), Weight: 0.3}}
	for i := 0; i < 100; i++ {
		p, ok := s.Pick(entries)
		if !ok || p.ID != "only" {
			t.Fatalf("Pick = %q ok=%v, want only/true", p.ID, ok)
		}
	}
}

func TestPickWeightedDistribution(t *testing.T) {
	// Pool {A: 1, B: 3} sampled 10k times with a fixed seed must land near
	// the 25/75 split.
	s := NewSelector(fixedRand())
	entries := []Entry{
		{Pattern: pat("A", catalog.TierEasy, false, catalog.FourFour), Weight: 1},
		{Pattern: pat("B", catalog.TierEasy, false, catalog.FourFour), Weight: 3},
	}

	const draws = 10000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		p, ok := s.Pick(entries)
		if !ok {
			t.Fatal("Pick failed on non-empty pool")
		}
		counts[p.ID]++
	}

	fracA := float64(counts["A"]) / draws
	if math.Abs(fracA-0.25) > 0.03 {
		t.Errorf("A drawn %.1f%%, want ~25%%", fracA*100)
	}
	if counts["A"]+counts["B"] != draws {
		t.Errorf("draws leaked: %v", counts)
	}
}

func TestPickIgnoresNothing(t *testing.T) {
	// Every positive-weight entry must be reachable.
	s := NewSelector(fixedRand())
	entries := []Entry{
		{Pattern: pat("x", catalog.TierEasy, false, catalog.FourFour), Weight: 0.01},
		{Pattern: pat("y", catalog.TierEasy, false, catalog.FourFour), Weight: 5},
	}
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		p, _ := s.Pick(entries)
		seen[p.ID] = true
	}
	if !seen["x"] || !seen["y"] {
		t.Errorf("not all entries reachable: %v", seen)
	}
}
