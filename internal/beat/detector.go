package beat

import (
	"time"

	"github.com/gonutz/ease"
)

// runningAverageBeta is the exponential moving average coefficient applied
// to each band's running average (spec.md §4.5, fixed at 0.05).
const runningAverageBeta = 0.05

// BeatDecayFrames is the number of ticks the "beat" envelope scalar takes to
// decay from 1.0 back to 0.0 after a trigger, assuming ~60 ticks/sec. This
// is an Open Question resolution (see DESIGN.md): the source spec leaves
// the decay curve's duration unspecified.
const BeatDecayFrames = 15

// PresetChange is the trigger effect a Detector hands to the engine; the
// detector itself never mutates preset state (spec.md §4.5).
type PresetChange struct {
	// Random requests any preset from the manager's catalog.
	Random bool
	// Tag requests a specific tagged preset when Random is false; the
	// manager falls back to Random if no preset carries the tag.
	Tag string
}

// BandValues is the subset of a frame's audio analysis the detector reads.
type BandValues struct {
	Bass, Mid, Treb, BassExtreme float64
}

// Detector watches one active Mode and emits PresetChange triggers.
type Detector struct {
	Mode     Mode
	Settings map[Mode]Settings

	averages     map[Band]float64
	lastTrigger  time.Time
	hasTriggered bool

	beatFramesSinceTrigger int
	beatActive             bool
}

// NewDetector creates a Detector in Off mode using the default policy
// table; callers may override Settings afterward (e.g. from YAML config).
func NewDetector() *Detector {
	return &Detector{
		Mode:     Off,
		Settings: DefaultSettings(),
		averages: make(map[Band]float64),
	}
}

func (d *Detector) bandValue(band Band, bv BandValues) float64 {
	switch band {
	case BandBass:
		return bv.Bass
	case BandMid:
		return bv.Mid
	case BandTreb:
		return bv.Treb
	case BandBassExtreme:
		return bv.BassExtreme
	default:
		return 0
	}
}

// Tick advances the running averages and the beat envelope by one frame of
// duration dt, and reports a PresetChange if now's sample crosses this
// mode's trigger threshold. Returns (nil, beatEnvelope) when no trigger
// fires this tick.
func (d *Detector) Tick(now time.Time, dt time.Duration, bv BandValues) (*PresetChange, float64) {
	d.beatFramesSinceTrigger++
	beatEnvelope := d.currentBeatEnvelope()

	if d.Mode == Off {
		return nil, beatEnvelope
	}

	settings, ok := d.Settings[d.Mode]
	if !ok {
		return nil, beatEnvelope
	}

	value := d.bandValue(settings.Band, bv)
	// The running average starts at zero, so the first loud frame after a
	// cold start crosses the threshold.
	avg := d.averages[settings.Band]
	avg = (1-runningAverageBeta)*avg + runningAverageBeta*value
	d.averages[settings.Band] = avg

	elapsed := now.Sub(d.lastTrigger)
	minInterval := time.Duration(settings.MinIntervalSeconds * float64(time.Second))

	crossed := avg > 0 && value > avg*settings.ThresholdRatio
	intervalOK := !d.hasTriggered || elapsed >= minInterval
	if !crossed || !intervalOK {
		return nil, beatEnvelope
	}

	d.lastTrigger = now
	d.hasTriggered = true
	d.beatFramesSinceTrigger = 0
	d.beatActive = true

	change := &PresetChange{Random: true}
	if d.Mode == HardCut6 {
		change.Random = false
		change.Tag = "bass_extreme"
	}
	return change, d.currentBeatEnvelope()
}

// currentBeatEnvelope returns the "beat" scalar's current value: 1.0 at the
// instant of a trigger, easing back to 0.0 over BeatDecayFrames via
// ease.OutQuad (a fast-then-slow decay, matching MilkDrop's punchy beat
// flash rather than a linear fade).
func (d *Detector) currentBeatEnvelope() float64 {
	if !d.beatActive {
		return 0
	}
	progress := float64(d.beatFramesSinceTrigger) / float64(BeatDecayFrames)
	if progress >= 1 {
		d.beatActive = false
		return 0
	}
	return 1 - ease.OutQuad(progress)
}

// SetMode changes the active detection mode. Running averages persist
// across a mode change so the new mode's threshold test isn't primed cold.
func (d *Detector) SetMode(m Mode) {
	d.Mode = m
}
