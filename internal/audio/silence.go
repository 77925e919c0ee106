package audio

import "math"

// Silence returns round(sampleRate*seconds) zero samples.
func Silence(sampleRate int, seconds float64) []float32 {
	n := int(math.Round(float64(sampleRate) * seconds))
	if n <= 0 {
		return nil
	}
	return make([]float32, n)
}
