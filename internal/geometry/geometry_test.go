package geometry

import "testing"

func TestNormalised(t *testing.T) {
	tests := []struct {
		name string
		in   Rectangle
		want Rectangle
	}{
		{"already normal", Rectangle{X: 1, Y: 2, W: 3, H: 4}, Rectangle{X: 1, Y: 2, W: 3, H: 4}},
		{"negative width", Rectangle{X: 10, Y: 0, W: -4, H: 2}, Rectangle{X: 6, Y: 0, W: 4, H: 2}},
		{"negative height", Rectangle{X: 0, Y: 10, W: 2, H: -4}, Rectangle{X: 0, Y: 6, W: 2, H: 4}},
		{"both negative", Rectangle{X: 5, Y: 5, W: -5, H: -5}, Rectangle{X: 0, Y: 0, W: 5, H: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalised()
			if got != tt.want {
				t.Fatalf("Normalised() = %+v, want %+v", got, tt.want)
			}
			if again := got.Normalised(); again != got {
				t.Fatalf("Normalised not idempotent: %+v -> %+v", got, again)
			}
		})
	}
}

func TestFromCorners(t *testing.T) {
	got := FromCorners(Point{X: 10, Y: 10}, Point{X: 2, Y: 4})
	want := Rectangle{X: 2, Y: 4, W: 8, H: 6}
	if got != want {
		t.Fatalf("FromCorners = %+v, want %+v", got, want)
	}
}

func TestContainsHalfOpen(t *testing.T) {
	r := Rectangle{X: 0, Y: 0, W: 10, H: 5}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{9.999, 4.999}, true},
		{Point{10, 0}, false},
		{Point{0, 5}, false},
		{Point{-0.001, 0}, false},
		{Point{5, 2.5}, true},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Fatalf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestArea(t *testing.T) {
	if got := (Rectangle{W: 3, H: 4}).Area(); got != 12 {
		t.Fatalf("Area = %v, want 12", got)
	}
}
