package audio

import "math"

// Bands is a single frame's worth of analyzed audio scalars, written
// directly into the expression engine's environment each tick (spec.md §3
// "Built-in scalars... bass, mid, treb, bass_att, mid_att, treb_att").
type Bands struct {
	Bass, Mid, Treb          float64
	BassAtt, MidAtt, TrebAtt float64
	Vol                      float64
}

// gain scales normalized DFT amplitude into MilkDrop's conventional
// "roughly 0 to a few" band range. Because each band is averaged over its
// bins, wider bands read lower: a full-scale sine in the bass band lands
// near 2.4 at 44.1 kHz with a 1024-sample window, one in the mid band near
// 0.3, both below the soft ceiling.
const gain = 12.0

// attenuationAlpha is the low-pass coefficient for the _att band variants
// (spec.md §4.4, default 0.2).
const attenuationAlpha = 0.2

// Analyzer performs Hann-windowed DFT band splitting against samples
// supplied through a Ring, persisting the _att low-pass state across ticks.
type Analyzer struct {
	Ring       *Ring
	SampleRate int

	bassAtt, midAtt, trebAtt float64
}

// NewAnalyzer creates an Analyzer reading from an internally owned Ring of
// the given capacity (samples), at sampleRate Hz.
func NewAnalyzer(sampleRate, ringCapacity int) *Analyzer {
	return &Analyzer{Ring: NewRing(ringCapacity), SampleRate: sampleRate}
}

// PushSamples hands a batch of newly captured PCM samples to the ring.
// Producer-side (audio callback thread).
func (a *Analyzer) PushSamples(samples []float32) {
	a.Ring.Write(samples)
}

// Analyze reads the most recent windowSize samples (256-2048, spec.md §4.4)
// and returns the current frame's bands, updating the persistent _att
// state. Consumer-side (frame thread), called once per tick.
func (a *Analyzer) Analyze(windowSize int) Bands {
	if windowSize < 256 {
		windowSize = 256
	}
	if windowSize > 2048 {
		windowSize = 2048
	}

	raw := a.Ring.ReadWindow(windowSize)
	n := nextPowerOfTwo(windowSize)
	window := HannWindow(windowSize)

	padded := make([]float64, n)
	for i, s := range raw {
		padded[i] = float64(s) * window[i]
	}

	mags := magnitudes(padded, n)

	bass := clampSoft(gain * bandSum(mags, a.SampleRate, n, 20, 250))
	mid := clampSoft(gain * bandSum(mags, a.SampleRate, n, 250, 2000))
	treb := clampSoft(gain * bandSum(mags, a.SampleRate, n, 2000, 20000))

	a.bassAtt = attenuationAlpha*bass + (1-attenuationAlpha)*a.bassAtt
	a.midAtt = attenuationAlpha*mid + (1-attenuationAlpha)*a.midAtt
	a.trebAtt = attenuationAlpha*treb + (1-attenuationAlpha)*a.trebAtt

	var rms float64
	for _, s := range raw {
		rms += float64(s) * float64(s)
	}
	if len(raw) > 0 {
		rms = math.Sqrt(rms / float64(len(raw)))
	}

	return Bands{
		Bass: bass, Mid: mid, Treb: treb,
		BassAtt: a.bassAtt, MidAtt: a.midAtt, TrebAtt: a.trebAtt,
		Vol: rms,
	}
}
