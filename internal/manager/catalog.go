package manager

import (
	"os"
	"path/filepath"
	"strings"

	"milkwarp/internal/observability"
	"milkwarp/internal/preset"
)

// Locator identifies a catalog entry: a filesystem path plus any tags
// parsed from its tag_* keys (e.g. "tag_bass_extreme=1") that the beat
// detector's HardCut6 mode can match against.
type Locator struct {
	Path string
	Tags map[string]bool
}

// ScanDirectory walks dir for ".milk" preset files, parses each to confirm
// it's valid, and returns a Locator for every file that parses without a
// structural error. Files that fail to parse are skipped and logged as a
// warning rather than aborting the scan — the same "walk, attempt, collect,
// skip invalid" shape the teacher's ROM builder uses when assembling a
// cartridge from a directory of source assets.
func ScanDirectory(dir string, logger *observability.Logger) ([]Locator, error) {
	var locators []Locator
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".milk") {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			if logger != nil {
				logger.Logf(observability.ComponentPreset, observability.LevelWarning, "skipping %s: %v", path, readErr)
			}
			return nil
		}

		p, _, parseErr := preset.Parse(string(data))
		if parseErr != nil {
			if logger != nil {
				logger.Logf(observability.ComponentPreset, observability.LevelWarning, "skipping %s: %v", path, parseErr)
			}
			return nil
		}

		tags := make(map[string]bool)
		// A numeric tag value ("tag_x=1") parses into Parameters; a textual
		// one ("tag_x=true") lands in UnknownKeys.
		for key, value := range p.Parameters {
			if strings.HasPrefix(key, "tag_") && value != 0 {
				tags[strings.TrimPrefix(key, "tag_")] = true
			}
		}
		for key, value := range p.UnknownKeys {
			if strings.HasPrefix(key, "tag_") && (value == "1" || strings.EqualFold(value, "true")) {
				tags[strings.TrimPrefix(key, "tag_")] = true
			}
		}

		locators = append(locators, Locator{Path: path, Tags: tags})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locators, nil
}
