// Package beat implements MilkDrop-style beat detection: a running-average
// threshold trigger per mode, and the "beat" envelope scalar the expression
// engine reads each frame (spec.md §4.5).
package beat

// Mode selects which band and threshold policy the detector watches.
type Mode int

const (
	Off Mode = iota
	HardCut1
	HardCut2
	HardCut3
	HardCut4
	HardCut5
	HardCut6
)

func (m Mode) String() string {
	switch m {
	case Off:
		return "Off"
	case HardCut1:
		return "HardCut1"
	case HardCut2:
		return "HardCut2"
	case HardCut3:
		return "HardCut3"
	case HardCut4:
		return "HardCut4"
	case HardCut5:
		return "HardCut5"
	case HardCut6:
		return "HardCut6"
	default:
		return "Unknown"
	}
}

// Band names the audio band a mode's threshold test watches.
type Band string

const (
	BandBass        Band = "bass"
	BandMid         Band = "mid"
	BandTreb        Band = "treb"
	BandBassExtreme Band = "bass_extreme"
)

// Settings is a single mode's trigger policy.
type Settings struct {
	ThresholdRatio     float64
	MinIntervalSeconds float64
	Band               Band
}

// DefaultSettings returns the built-in per-mode policy table. HardCut1-5
// vary threshold ratio, minimum interval, and band across bass/mid/treb;
// HardCut6 watches
// the emphasized bass_extreme band used to gate a specific tagged preset.
func DefaultSettings() map[Mode]Settings {
	return map[Mode]Settings{
		HardCut1: {ThresholdRatio: 1.3, MinIntervalSeconds: 2.0, Band: BandBass},
		HardCut2: {ThresholdRatio: 1.5, MinIntervalSeconds: 1.5, Band: BandBass},
		HardCut3: {ThresholdRatio: 1.3, MinIntervalSeconds: 2.0, Band: BandMid},
		HardCut4: {ThresholdRatio: 1.3, MinIntervalSeconds: 2.0, Band: BandTreb},
		HardCut5: {ThresholdRatio: 1.8, MinIntervalSeconds: 1.0, Band: BandBass},
		HardCut6: {ThresholdRatio: 2.2, MinIntervalSeconds: 3.0, Band: BandBassExtreme},
	}
}
