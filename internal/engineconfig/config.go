// Package engineconfig holds the engine orchestrator's tunable knobs as an
// optional YAML document, parsed with gopkg.in/yaml.v2 in the same style
// as internal/beat.Config (itself grounded on SentryShot-sentryshot's
// pkg/storage.ConfigEnv). Defaults are compiled in; the YAML file only
// overrides fields it mentions.
package engineconfig

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"milkwarp/internal/milkerr"
)

// Config is the engine's tunable policy, independent of any single preset.
type Config struct {
	// SampleRate is the audio capture rate in Hz (spec.md §4.4).
	SampleRate int `yaml:"sample_rate"`
	// RingCapacity is the PCM ring buffer's sample capacity (spec.md §5).
	RingCapacity int `yaml:"ring_capacity"`
	// AnalysisWindow is the number of samples fed to the DFT each tick
	// (spec.md §4.4: "256-2048 samples").
	AnalysisWindow int `yaml:"analysis_window"`
	// MeshWidth/MeshHeight size the per-pixel warp vertex grid
	// (spec.md §4.2: "default 32x24 vertices").
	MeshWidth  int `yaml:"mesh_width"`
	MeshHeight int `yaml:"mesh_height"`
	// MaxPerFrameBlockBytes bounds the total per-frame block source size
	// (spec.md §5: "total per-frame block size limited to a configured
	// ceiling, default 1 MB").
	MaxPerFrameBlockBytes int `yaml:"max_per_frame_block_bytes"`
	// TargetFPS is used only to clamp the reported fps scalar; the engine
	// itself never blocks to pace frames (the host drives tick timing).
	TargetFPS float64 `yaml:"target_fps"`
}

// Default returns the compiled-in tunable values.
func Default() Config {
	return Config{
		SampleRate:            44100,
		RingCapacity:          4096,
		AnalysisWindow:        1024,
		MeshWidth:             32,
		MeshHeight:            24,
		MaxPerFrameBlockBytes: 1 << 20,
		TargetFPS:             60.0,
	}
}

// Load parses a YAML override document on top of Default(), returning the
// merged Config. A zero-valued or absent field in data keeps its default.
func Load(data []byte) (Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Config{}, milkerr.Wrap(milkerr.ParseError, "engineconfig", err)
	}

	if override.SampleRate != 0 {
		cfg.SampleRate = override.SampleRate
	}
	if override.RingCapacity != 0 {
		cfg.RingCapacity = override.RingCapacity
	}
	if override.AnalysisWindow != 0 {
		cfg.AnalysisWindow = override.AnalysisWindow
	}
	if override.MeshWidth != 0 {
		cfg.MeshWidth = override.MeshWidth
	}
	if override.MeshHeight != 0 {
		cfg.MeshHeight = override.MeshHeight
	}
	if override.MaxPerFrameBlockBytes != 0 {
		cfg.MaxPerFrameBlockBytes = override.MaxPerFrameBlockBytes
	}
	if override.TargetFPS != 0 {
		cfg.TargetFPS = override.TargetFPS
	}

	if cfg.AnalysisWindow < 256 || cfg.AnalysisWindow > 2048 {
		return Config{}, milkerr.New(milkerr.ParseError, "engineconfig",
			fmt.Sprintf("analysis_window must be in [256, 2048], got %d", cfg.AnalysisWindow))
	}

	return cfg, nil
}
