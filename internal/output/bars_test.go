package output

import (
	"strings"
	"testing"
)

func TestShareBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	got := ShareBar(50, 10)
	if strings.Count(got, fullBlock) != 5 {
		t.Errorf("expected 5 filled cells, got %q", got)
	}
	if !strings.Contains(got, "50.0%") {
		t.Errorf("expected percent label, got %q", got)
	}
}

func TestShareBar_Clamps(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	if got := ShareBar(250, 10); strings.Count(got, fullBlock) != 10 {
		t.Errorf("expected bar clamped to width, got %q", got)
	}
	if got := ShareBar(-5, 10); strings.Count(got, fullBlock) != 0 {
		t.Errorf("expected empty bar, got %q", got)
	}
}

func TestFrictionBar_Stacks(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	got := FrictionBar(6, 4, 10, 10)
	if strings.Count(got, fullBlock) != 6 {
		t.Errorf("expected 6 ended cells, got %q", got)
	}
	if strings.Count(got, shadeBlock) != 4 {
		t.Errorf("expected 4 canceled cells, got %q", got)
	}
	if !strings.Contains(got, "10 (4 canceled)") {
		t.Errorf("expected label, got %q", got)
	}
}

func TestFrictionBar_ZeroMax(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	got := FrictionBar(0, 0, 0, 5)
	if strings.Count(got, emptyBlock) != 5 {
		t.Errorf("expected empty bar, got %q", got)
	}
}

func TestCountBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	got := CountBar(3, 12, 8)
	if strings.Count(got, fullBlock) != 2 {
		t.Errorf("expected 2 filled cells, got %q", got)
	}
}

func TestTrendArrow(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tests := []struct {
		delta float64
		want  string
	}{
		{0, "─"},
		{2.5, "▲ +2.5"},
		{-1, "▼ -1.0"},
	}
	for _, tc := range tests {
		if got := TrendArrow(tc.delta, false); got != tc.want {
			t.Errorf("TrendArrow(%v) = %q, want %q", tc.delta, got, tc.want)
		}
	}
}
