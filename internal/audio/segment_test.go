package audio

import (
	"reflect"
	"testing"
)

func TestSplitSentencesDropsBlankLines(t *testing.T) {
	got := SplitSentences("a\n\nb\n")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitSentencesTrimsAndKeepsOrder(t *testing.T) {
	got := SplitSentences("  first  \n\t\nsecond\nfirst\n   ")
	want := []string{"first", "second", "first"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitSentencesWhitespaceOnly(t *testing.T) {
	if got := SplitSentences("  \n\t\n"); len(got) != 0 {
		t.Fatalf("expected no sentences, got %v", got)
	}
	if got := SplitSentences(""); len(got) != 0 {
		t.Fatalf("expected no sentences for empty input, got %v", got)
	}
}

func TestSplitSentencesDoesNotSplitOnPunctuation(t *testing.T) {
	got := SplitSentences("One. Two! Three?")
	if len(got) != 1 || got[0] != "One. Two! Three?" {
		t.Fatalf("expected a single sentence, got %v", got)
	}
}
