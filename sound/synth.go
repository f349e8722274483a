package sound

import (
	"math"
	"time"
)

const (
	clickLength = 60 * time.Millisecond
	clickAttack = 2 * time.Millisecond
	clickAmp    = 0.3
	clickDecay  = 80.0
)

// clickWave synthesizes a decaying sine burst at freq Hz as interleaved
// stereo frames. A short linear attack avoids the pop of a hard onset.
func clickWave(freq float64) []float32 {
	nframes := int(sampleRate * clickLength.Seconds())
	attack := int(sampleRate * clickAttack.Seconds())
	out := make([]float32, 0, channels*nframes)
	for i := 0; i < nframes; i++ {
		t := float64(i) / sampleRate
		amp := clickAmp * math.Exp(-t*clickDecay)
		if i < attack {
			amp *= float64(i) / float64(attack)
		}
		s := float32(amp * math.Sin(2*math.Pi*freq*t))
		out = append(out, s, s)
	}
	return out
}
