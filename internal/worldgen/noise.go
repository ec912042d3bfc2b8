package worldgen

import (
	"github.com/ojrac/opensimplex-go"
)

// noiseField wraps OpenSimplex noise seeded once per Generator. It is used
// as the smooth, continuous building block for the surface-height octave
// stack; the discrete per-column and per-cell decisions (tree placement,
// cave hollowing) are handled separately by the splitmix64 hash PRNG in
// hash.go, which needs exact bit-for-bit repeatability keyed by integer
// coordinates rather than a smooth field.
type noiseField struct {
	noise opensimplex.Noise
}

func newNoiseField(seed int64) *noiseField {
	return &noiseField{noise: opensimplex.New(seed)}
}

// eval2D returns the raw OpenSimplex sample in [-1, 1] at (x, y).
func (n *noiseField) eval2D(x, y float64) float64 {
	return n.noise.Eval2(x, y)
}

// octaveAt sums `octaves` layers of the field sampled at a fixed phase per
// layer, each layer at double the frequency and `persistence` of the
// amplitude of the previous one, then normalizes to [-1, 1]. Sampling each
// octave at its own fixed phase (rather than all at phase 0) is what gives
// the stack its "sinusoidal octaves at fixed phases" character — distinct,
// unmoving cross-sections of the same continuous field.
func (n *noiseField) octaveAt(x float64, octaves int, frequency, persistence float64) float64 {
	var total, maxAmp float64
	amp := 1.0
	freq := frequency
	for i := 0; i < octaves; i++ {
		phase := float64(i)*37.219 + 11.0
		total += n.eval2D(x*freq, phase) * amp
		maxAmp += amp
		amp *= persistence
		freq *= 2
	}
	if maxAmp == 0 {
		return 0
	}
	return total / maxAmp
}
