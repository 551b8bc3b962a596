package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(7, 1, 4); got != 4 {
		t.Fatalf("ClampInt(7, 1, 4) = %d, want 4", got)
	}
	if got := ClampInt(-3, 1, 4); got != 1 {
		t.Fatalf("ClampInt(-3, 1, 4) = %d, want 1", got)
	}
	if got := ClampInt(3, 4, 1); got != 3 {
		t.Fatalf("ClampInt(3, 4, 1) = %d, want 3", got)
	}
}

func TestJmapNormalizeRoundTrip(t *testing.T) {
	for _, v := range []float64{-12, -3.5, 0, 7, 12} {
		n := Normalize(v, -12, 12)
		if n < 0 || n > 1 {
			t.Fatalf("Normalize(%v) = %v, want [0, 1]", v, n)
		}
		back := Jmap(n, -12, 12)
		if math.Abs(back-v) > 1e-12 {
			t.Fatalf("Jmap(Normalize(%v)) = %v", v, back)
		}
	}
	if got := Normalize(3, 2, 2); got != 0 {
		t.Fatalf("degenerate Normalize = %v, want 0", got)
	}
}

func TestLinearToDB(t *testing.T) {
	if math.Abs(LinearToDB(0.5)-(-6.020599913279624)) > 1e-12 {
		t.Fatalf("LinearToDB(0.5) = %v", LinearToDB(0.5))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestFlushDenormals(t *testing.T) {
	if FlushDenormals(1e-35) != 0 {
		t.Fatal("expected tiny value to flush to zero")
	}
	if FlushDenormals(1e-3) != 1e-3 {
		t.Fatal("expected normal value to pass through")
	}
}
