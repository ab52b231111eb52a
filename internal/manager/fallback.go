// Package manager implements the preset catalog: cursor/history navigation,
// directory scanning, and safe-load-with-fallback (spec.md §4.6).
package manager

// fallbackPresetText is a guaranteed-valid, minimally animated preset
// compiled into the binary so SafeLoad always has something to substitute
// for a preset that repeatedly fails to load. Its validity is asserted by
// TestFallbackPresetParses in fallback_test.go.
const fallbackPresetText = `[preset00]
zoom=1.0
rot=0.0
cx=0.5
cy=0.5
dx=0.0
dy=0.0
sx=1.0
sy=1.0
warp=0.0
decay=0.98
wave_mode=0
wave_r=0.5
wave_g=0.5
wave_b=0.5
wave_a=1.0
per_frame_1=wave_r = 0.5 + 0.5*sin(time*1.1)
per_frame_2=rot = rot + 0.001
`

// FallbackPresetText returns the compiled-in default preset's source text.
func FallbackPresetText() string {
	return fallbackPresetText
}
