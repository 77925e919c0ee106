package audio

import (
	"math"
	"testing"
)

func TestQuantizeBoundaries(t *testing.T) {
	cases := []struct {
		in   float32
		want int16
	}{
		{1.0, 32767},
		{-1.0, -32768},
		{2.0, 32767},   // clamped
		{-2.0, -32768}, // clamped
		{0.0, 0},
	}
	for _, tc := range cases {
		got := QuantizePCM16([]float32{tc.in})
		if len(got) != 1 || got[0] != tc.want {
			t.Fatalf("quantize(%v): expected [%d], got %v", tc.in, tc.want, got)
		}
	}
}

func TestQuantizeAsymmetricScaling(t *testing.T) {
	got := QuantizePCM16([]float32{0.5, -0.5})
	if got[0] != 16383 { // trunc(0.5 * 32767)
		t.Fatalf("expected 16383, got %d", got[0])
	}
	if got[1] != -16384 { // trunc(-0.5 * 32768)
		t.Fatalf("expected -16384, got %d", got[1])
	}
}

func TestQuantizeNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	posInf := float32(math.Inf(1))
	negInf := float32(math.Inf(-1))
	got := QuantizePCM16([]float32{nan, posInf, negInf})
	if got[0] != 0 {
		t.Fatalf("expected NaN to quantize to 0, got %d", got[0])
	}
	if got[1] != 32767 || got[2] != -32768 {
		t.Fatalf("expected infinities to clamp to rails, got %d %d", got[1], got[2])
	}
}

func TestQuantizePreservesLengthAndOrder(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3, -0.4}
	got := QuantizePCM16(in)
	if len(got) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(got))
	}
	if got[0] <= 0 || got[1] >= 0 || got[2] <= got[0] || got[3] >= got[1] {
		t.Fatalf("order not preserved: %v", got)
	}
}
