package audio

import "testing"

func TestSilenceLength(t *testing.T) {
	buf := Silence(22050, 0.5)
	if len(buf) != 11025 {
		t.Fatalf("expected 11025 samples, got %d", len(buf))
	}
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("expected zero amplitude at %d, got %v", i, s)
		}
	}
}

func TestSilenceZeroDuration(t *testing.T) {
	if buf := Silence(22050, 0); len(buf) != 0 {
		t.Fatalf("expected empty buffer, got %d samples", len(buf))
	}
}

func TestSilenceRoundsHalfAwayFromZero(t *testing.T) {
	if got := len(Silence(3, 0.5)); got != 2 {
		t.Fatalf("expected round(1.5)=2 samples, got %d", got)
	}
	if got := len(Silence(3, 0.4)); got != 1 {
		t.Fatalf("expected round(1.2)=1 sample, got %d", got)
	}
}
