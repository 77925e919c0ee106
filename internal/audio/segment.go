// Package audio implements the waveform assembly pipeline: sentence
// segmentation, silence gaps, float-to-PCM16 quantization and WAV encoding.
package audio

import "strings"

// SplitSentences splits text into one sentence per non-empty line.
// Lines are trimmed, blank lines dropped, order and duplicates preserved.
func SplitSentences(text string) []string {
	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
