package beat

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"milkwarp/internal/milkerr"
)

// configSettings is the YAML-facing mirror of Settings; field names follow
// the snake_case convention the teacher's own config/asset text formats
// use, matching SentryShot-sentryshot/pkg/storage's yaml.v2 usage in the
// retrieved pack.
type configSettings struct {
	ThresholdRatio     float64 `yaml:"threshold_ratio"`
	MinIntervalSeconds float64 `yaml:"min_interval_seconds"`
	Band               string  `yaml:"band"`
}

// Config is the on-disk override document for per-mode beat settings.
// Modes absent from the document keep their DefaultSettings() values.
type Config struct {
	Modes map[string]configSettings `yaml:"modes"`
}

// LoadConfig parses a YAML beat-detector override document and applies it
// on top of DefaultSettings(), returning the merged per-mode table.
func LoadConfig(data []byte) (map[Mode]Settings, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, milkerr.Wrap(milkerr.ParseError, "beat", err)
	}

	merged := DefaultSettings()
	for name, override := range cfg.Modes {
		mode, ok := modeByName(name)
		if !ok {
			return nil, milkerr.New(milkerr.ParseError, "beat", fmt.Sprintf("unknown beat mode %q", name))
		}
		settings := merged[mode]
		if override.ThresholdRatio != 0 {
			settings.ThresholdRatio = override.ThresholdRatio
		}
		if override.MinIntervalSeconds != 0 {
			settings.MinIntervalSeconds = override.MinIntervalSeconds
		}
		if override.Band != "" {
			settings.Band = Band(override.Band)
		}
		merged[mode] = settings
	}
	return merged, nil
}

func modeByName(name string) (Mode, bool) {
	for m := Off; m <= HardCut6; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return Off, false
}
