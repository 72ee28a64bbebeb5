package arq

import (
	"testing"
)

func TestDist(t *testing.T) {
	s := NewSpace(6)
	if s.Size != 7 {
		t.Errorf("space size %d, want 7", s.Size)
	}
	if d := s.Dist(0, 0); d != 0 {
		t.Errorf("dist(0,0) = %d", d)
	}
	if d := s.Dist(0, 5); d != 5 {
		t.Errorf("dist(0,5) = %d", d)
	}
	if d := s.Dist(5, 2); d != 4 {
		t.Errorf("dist(5,2) = %d", d)
	}
	if d := s.Dist(2, 1); d != 6 {
		t.Errorf("dist(2,1) = %d", d)
	}
}

func TestInWindow(t *testing.T) {
	s := NewSpace(6)
	for x := 0; x < 6; x++ {
		if !s.InWindow(0, x) {
			t.Errorf("%d should be in window at base 0", x)
		}
	}
	if s.InWindow(0, 6) {
		t.Error("6 should be outside window at base 0")
	}
	// wraparound
	if !s.InWindow(5, 3) {
		t.Error("3 should be in window at base 5")
	}
	if s.InWindow(5, 4) {
		t.Error("4 should be outside window at base 5")
	}
	// the sentinel is never in a window
	if s.InWindow(0, NotInUse) {
		t.Error("sentinel treated as in window")
	}
	if s.InWindow(0, 7) {
		t.Error("out-of-space value treated as in window")
	}
}

func TestNextPrev(t *testing.T) {
	s := NewSpace(6)
	if n := s.Next(6); n != 0 {
		t.Errorf("next(6) = %d", n)
	}
	if p := s.Prev(0); p != 6 {
		t.Errorf("prev(0) = %d", p)
	}
	for x := 0; x < s.Size; x++ {
		if s.Prev(s.Next(x)) != x {
			t.Errorf("prev(next(%d)) != %d", x, x)
		}
	}
}
