package avatar

import (
	"strconv"
	"testing"
)

func TestNewSeed_Deterministic(t *testing.T) {
	a := NewSeed("facebook/react", 0)
	b := NewSeed("facebook/react", 0)

	if a != b {
		t.Errorf("same inputs produced different seeds: %+v vs %+v", a, b)
	}
}

func TestNewSeed_DigestShape(t *testing.T) {
	s := NewSeed("facebook/react", 0)

	if len(s.Hex) != 32 {
		t.Fatalf("digest length = %d, want 32", len(s.Hex))
	}
	v, err := strconv.ParseUint(s.Hex[:8], 16, 32)
	if err != nil {
		t.Fatalf("first 8 hex digits not parseable: %v", err)
	}
	if uint32(v) != s.Int {
		t.Errorf("Int = %d, want %d (first 8 hex digits)", s.Int, v)
	}
}

func TestNewSeed_VariesByInput(t *testing.T) {
	base := NewSeed("facebook/react", 0)

	if other := NewSeed("facebook/react", 1); other.Hex == base.Hex {
		t.Error("variant change did not change digest")
	}
	if other := NewSeed("facebook/reacts", 0); other.Hex == base.Hex {
		t.Error("identifier change did not change digest")
	}
	// Identifier is case-preserved, so case changes the seed.
	if other := NewSeed("Facebook/react", 0); other.Hex == base.Hex {
		t.Error("case change did not change digest")
	}
}
