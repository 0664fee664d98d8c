// Package audio plays synthesized clips. The primary sink encodes PCM to
// Opus and streams RTP over UDP to a playout endpoint; a local exec player
// covers development machines with no RTP receiver.
package audio

import "encoding/binary"

// BytesToInt16 converts little-endian PCM16 bytes to samples.
func BytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

// Int16ToBytes converts samples to little-endian PCM16 bytes.
func Int16ToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

// Resample converts samples from srcRate to dstRate by linear interpolation.
// Good enough for voice; coaching cues are not music.
func Resample(samples []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(dstRate) / float64(srcRate)
	out := make([]int16, int(float64(len(samples))*ratio))

	for i := range out {
		pos := float64(i) / ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = int16(float64(samples[idx])*(1-frac) + float64(samples[idx+1])*frac)
	}
	return out
}
