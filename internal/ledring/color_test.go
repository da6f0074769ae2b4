package ledring

import "testing"

func TestLerpEndpoints(t *testing.T) {
	a := Color{R: 10, G: 20, B: 30}
	b := Color{R: 200, G: 100, B: 0}

	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(a, b, 0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp(a, b, 1) = %v, want %v", got, b)
	}
}

func TestLerpIdentical(t *testing.T) {
	a := Color{R: 128, G: 64, B: 255}
	for _, tt := range []float64{-1, 0, 0.3, 0.5, 1, 2} {
		if got := Lerp(a, a, tt); got != a {
			t.Errorf("Lerp(a, a, %v) = %v, want %v", tt, got, a)
		}
	}
}

func TestLerpClampsT(t *testing.T) {
	a := Color{R: 0, G: 0, B: 0}
	b := Color{R: 255, G: 255, B: 255}

	if got := Lerp(a, b, -0.5); got != a {
		t.Errorf("Lerp with t<0 = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1.5); got != b {
		t.Errorf("Lerp with t>1 = %v, want %v", got, b)
	}
}

func TestLerpMidpointRounds(t *testing.T) {
	a := Color{R: 0, G: 100, B: 255}
	b := Color{R: 255, G: 200, B: 0}

	got := Lerp(a, b, 0.5)
	want := Color{R: 128, G: 150, B: 128}
	if got != want {
		t.Errorf("Lerp midpoint = %v, want %v", got, want)
	}
}

func TestScaleZeroAndOne(t *testing.T) {
	c := Color{R: 12, G: 200, B: 99}

	if got := Scale(c, 0); got != Off {
		t.Errorf("Scale(c, 0) = %v, want all-zero", got)
	}
	if got := Scale(c, 1); got != c {
		t.Errorf("Scale(c, 1) = %v, want %v", got, c)
	}
}

func TestScaleClampsBrightness(t *testing.T) {
	c := Color{R: 100, G: 100, B: 100}

	if got := Scale(c, -0.2); got != Off {
		t.Errorf("Scale with negative brightness = %v, want all-zero", got)
	}
	if got := Scale(c, 3.0); got != c {
		t.Errorf("Scale with brightness>1 = %v, want %v", got, c)
	}
}

func TestScaleRoundsToNearest(t *testing.T) {
	c := Color{R: 255, G: 1, B: 3}

	got := Scale(c, 0.5)
	want := Color{R: 128, G: 1, B: 2}
	if got != want {
		t.Errorf("Scale(c, 0.5) = %v, want %v", got, want)
	}
}
