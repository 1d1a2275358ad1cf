package domain

import (
	"math"
	"testing"
)

func TestDistanceToSymmetricAndZero(t *testing.T) {
	a := Coordinates{X: 1, Y: 2, Z: 3}
	b := Coordinates{X: -4, Y: 0.5, Z: 9}

	if d := a.DistanceTo(a); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}

	ab := a.DistanceTo(b)
	ba := b.DistanceTo(a)
	if ab != ba {
		t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
	}
	if ab < 0 {
		t.Fatalf("distance negative: %v", ab)
	}
}

func TestDistanceToKnownValue(t *testing.T) {
	sol := Coordinates{}
	beta := Coordinates{X: 3, Y: 4, Z: 0}

	if d := sol.DistanceTo(beta); math.Abs(d-5) > 1e-12 {
		t.Fatalf("distance = %v, want 5", d)
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Shinrarta   Dezhra "); got != "shinrarta dezhra" {
		t.Fatalf("NormalizeName = %q", got)
	}
	if NormalizeName("SOL") != NormalizeName(" sol ") {
		t.Fatal("SOL and sol should normalize to the same key")
	}
	if NormalizeName("Sol") == NormalizeName("Alioth") {
		t.Fatal("distinct systems should not share a key")
	}
}
