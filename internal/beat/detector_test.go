package beat

import (
	"testing"
	"time"
)

func TestOffModeNeverTriggers(t *testing.T) {
	d := NewDetector()
	now := time.Now()
	for i := 0; i < 100; i++ {
		change, _ := d.Tick(now, time.Second/60, BandValues{Bass: 10})
		if change != nil {
			t.Fatal("Off mode should never emit a PresetChange")
		}
		now = now.Add(time.Second / 60)
	}
}

func TestHardCut1TriggersOnSpike(t *testing.T) {
	d := NewDetector()
	d.SetMode(HardCut1)
	now := time.Now()

	// Settle the running average on a quiet baseline.
	for i := 0; i < 200; i++ {
		d.Tick(now, time.Second/60, BandValues{Bass: 0.1})
		now = now.Add(time.Second / 60)
	}

	change, beatVal := d.Tick(now, time.Second/60, BandValues{Bass: 5.0})
	if change == nil {
		t.Fatal("expected a trigger on a large bass spike")
	}
	if !change.Random {
		t.Error("HardCut1 should request a random preset")
	}
	if beatVal <= 0 {
		t.Errorf("beat envelope should be > 0 immediately after trigger, got %v", beatVal)
	}
}

func TestMinIntervalSuppressesRapidRetrigger(t *testing.T) {
	d := NewDetector()
	d.SetMode(HardCut1)
	now := time.Now()
	for i := 0; i < 200; i++ {
		d.Tick(now, time.Second/60, BandValues{Bass: 0.1})
		now = now.Add(time.Second / 60)
	}

	change, _ := d.Tick(now, time.Second/60, BandValues{Bass: 5.0})
	if change == nil {
		t.Fatal("expected first trigger")
	}

	now = now.Add(10 * time.Millisecond)
	change2, _ := d.Tick(now, time.Second/60, BandValues{Bass: 5.0})
	if change2 != nil {
		t.Fatal("retrigger within min_interval_seconds should be suppressed")
	}
}

func TestHardCut6RequestsTaggedPreset(t *testing.T) {
	d := NewDetector()
	d.SetMode(HardCut6)
	now := time.Now()
	for i := 0; i < 200; i++ {
		d.Tick(now, time.Second/60, BandValues{BassExtreme: 0.1})
		now = now.Add(time.Second / 60)
	}
	change, _ := d.Tick(now, time.Second/60, BandValues{BassExtreme: 5.0})
	if change == nil {
		t.Fatal("expected a trigger")
	}
	if change.Random {
		t.Error("HardCut6 should request a tagged preset, not random")
	}
	if change.Tag == "" {
		t.Error("HardCut6 should set a tag")
	}
}

func TestBeatEnvelopeDecaysToZero(t *testing.T) {
	d := NewDetector()
	d.SetMode(HardCut1)
	now := time.Now()
	for i := 0; i < 200; i++ {
		d.Tick(now, time.Second/60, BandValues{Bass: 0.1})
		now = now.Add(time.Second / 60)
	}
	_, first := d.Tick(now, time.Second/60, BandValues{Bass: 5.0})
	if first <= 0 {
		t.Fatal("expected a positive beat envelope right after trigger")
	}

	var last float64
	for i := 0; i < BeatDecayFrames+5; i++ {
		now = now.Add(time.Second / 60)
		_, last = d.Tick(now, time.Second/60, BandValues{Bass: 0.1})
	}
	if last != 0 {
		t.Errorf("beat envelope should decay to 0 after BeatDecayFrames, got %v", last)
	}
}

func TestLoadConfigOverridesThreshold(t *testing.T) {
	yamlDoc := []byte(`
modes:
  HardCut1:
    threshold_ratio: 9.9
    min_interval_seconds: 0.5
`)
	settings, err := LoadConfig(yamlDoc)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if settings[HardCut1].ThresholdRatio != 9.9 {
		t.Errorf("threshold_ratio override not applied: got %v", settings[HardCut1].ThresholdRatio)
	}
	if settings[HardCut1].MinIntervalSeconds != 0.5 {
		t.Errorf("min_interval_seconds override not applied: got %v", settings[HardCut1].MinIntervalSeconds)
	}
	// Unrelated modes keep their defaults.
	if settings[HardCut2].ThresholdRatio != DefaultSettings()[HardCut2].ThresholdRatio {
		t.Error("unrelated mode should keep its default settings")
	}
}

func TestLoadConfigRejectsUnknownMode(t *testing.T) {
	_, err := LoadConfig([]byte("modes:\n  NotAMode:\n    threshold_ratio: 1.0\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown mode name")
	}
}
