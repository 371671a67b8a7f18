package model

import "testing"

func TestPositionRange(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Position{0, 0}, Position{0, 0}, 0},
		{Position{0, 0}, Position{3, 1}, 3},
		{Position{5, 5}, Position{2, 9}, 4},
		{Position{10, 10}, Position{9, 11}, 1},
	}
	for _, tc := range tests {
		if got := tc.a.Range(tc.b); got != tc.want {
			t.Errorf("Range(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := tc.b.Range(tc.a); got != tc.want {
			t.Errorf("Range is not symmetric for %v, %v", tc.a, tc.b)
		}
	}
}

func TestRectClamp(t *testing.T) {
	r := Bounds(50, 50)
	if got := r.Clamp(Position{-3, 60}); got != (Position{0, 49}) {
		t.Errorf("Clamp = %v, want {0 49}", got)
	}
	if got := r.Clamp(Position{20, 20}); got != (Position{20, 20}) {
		t.Errorf("Clamp moved an inside point: %v", got)
	}
	if !r.Contains(Position{49, 0}) || r.Contains(Position{50, 0}) {
		t.Error("Contains boundary check wrong")
	}
}

func TestEdgeDistance(t *testing.T) {
	if got := EdgeDistance(Position{0, 25}, 50, 50); got != 0 {
		t.Errorf("EdgeDistance on left edge = %d, want 0", got)
	}
	if got := EdgeDistance(Position{25, 25}, 50, 50); got != 24 {
		t.Errorf("EdgeDistance at center = %d, want 24", got)
	}
	if !OnBoundary(Position{49, 10}, 50, 50) {
		t.Error("right column should be a boundary")
	}
	if OnBoundary(Position{1, 1}, 50, 50) {
		t.Error("(1,1) is not a boundary cell")
	}
}
