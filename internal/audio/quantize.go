package audio

// QuantizePCM16 converts float samples to 16-bit PCM. Each sample is clamped
// to [-1, 1] first, then negatives scale by 32768 and non-negatives by 32767
// so both rails are reachable. Conversion truncates toward zero.
func QuantizePCM16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		if s != s { // NaN
			continue
		}
		if s < -1.0 {
			s = -1.0
		} else if s > 1.0 {
			s = 1.0
		}
		if s < 0 {
			out[i] = int16(s * 32768)
		} else {
			out[i] = int16(s * 32767)
		}
	}
	return out
}
