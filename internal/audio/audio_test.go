package audio

import (
	"math"
	"testing"
)

func TestRingReadWindowZeroPadsBeforeFirstWrite(t *testing.T) {
	r := NewRing(1024)
	window := r.ReadWindow(256)
	for i, v := range window {
		if v != 0 {
			t.Fatalf("expected zero padding at %d, got %v", i, v)
		}
	}
}

func TestRingReadWindowReturnsMostRecentSamples(t *testing.T) {
	r := NewRing(8)
	r.Write([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	window := r.ReadWindow(4)
	want := []float32{7, 8, 9, 10}
	for i, v := range want {
		if window[i] != v {
			t.Fatalf("window[%d] = %v, want %v (full window %v)", i, window[i], v, window)
		}
	}
}

func TestRingDiscardsOlderThanCapacity(t *testing.T) {
	r := NewRing(4)
	r.Write([]float32{1, 2, 3, 4, 5, 6})
	if r.Available() != 4 {
		t.Fatalf("Available() = %d, want 4", r.Available())
	}
	window := r.ReadWindow(4)
	want := []float32{3, 4, 5, 6}
	for i, v := range want {
		if window[i] != v {
			t.Fatalf("window[%d] = %v, want %v", i, window[i], v)
		}
	}
}

func TestHannWindowEndpointsNearZero(t *testing.T) {
	w := HannWindow(64)
	if w[0] > 1e-9 {
		t.Errorf("w[0] = %v, want ~0", w[0])
	}
	if w[len(w)-1] > 1e-9 {
		t.Errorf("w[last] = %v, want ~0", w[len(w)-1])
	}
	mid := w[len(w)/2]
	if mid < 0.9 {
		t.Errorf("midpoint = %v, want near 1", mid)
	}
}

func TestNextPowerOfTwoCapsAt2048(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 500: 512, 2048: 2048, 3000: 2048}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestAnalyzeBassToneDominatesBassBand(t *testing.T) {
	a := NewAnalyzer(44100, 4096)
	samples := make([]float32, 1024)
	freq := 80.0 // within the 20-250Hz bass band
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / 44100))
	}
	a.PushSamples(samples)
	bands := a.Analyze(1024)

	if bands.Bass <= bands.Mid {
		t.Errorf("bass tone: bass=%v should exceed mid=%v", bands.Bass, bands.Mid)
	}
	if bands.Bass <= bands.Treb {
		t.Errorf("bass tone: bass=%v should exceed treb=%v", bands.Bass, bands.Treb)
	}
}

func TestBandsClampedToSoftCeiling(t *testing.T) {
	a := NewAnalyzer(44100, 4096)
	samples := make([]float32, 1024)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 1
		} else {
			samples[i] = -1
		}
	}
	a.PushSamples(samples)
	bands := a.Analyze(1024)
	for _, v := range []float64{bands.Bass, bands.Mid, bands.Treb} {
		if v > softCeiling {
			t.Errorf("band value %v exceeds soft ceiling %v", v, softCeiling)
		}
	}
}

func TestAttenuatedBandsLowPassTowardRaw(t *testing.T) {
	a := NewAnalyzer(44100, 4096)
	samples := make([]float32, 1024)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 80 * float64(i) / 44100))
	}
	a.PushSamples(samples)

	first := a.Analyze(1024)
	if first.BassAtt == 0 && first.Bass != 0 {
		t.Errorf("attenuated band should move toward raw value on first tick")
	}

	a.PushSamples(samples)
	second := a.Analyze(1024)
	if second.BassAtt <= first.BassAtt && first.Bass > first.BassAtt {
		t.Errorf("attenuated band should keep climbing toward a sustained raw value: first=%v second=%v raw=%v",
			first.BassAtt, second.BassAtt, second.Bass)
	}
}

func TestAnalyzeHandlesSilence(t *testing.T) {
	a := NewAnalyzer(44100, 4096)
	a.PushSamples(make([]float32, 1024))
	bands := a.Analyze(1024)
	if bands.Bass != 0 || bands.Mid != 0 || bands.Treb != 0 {
		t.Errorf("silent window should yield zero bands, got %+v", bands)
	}
}
