package preset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Serialize renders the preset back to MilkDrop text form. Round-tripping
// Parse(Serialize(p)) reproduces p's Parameters, equation blocks, and
// UnknownKeys, though not necessarily byte-identical source (key ordering
// is sorted for determinism rather than preserving original line order).
func (p *Preset) Serialize() string {
	var b strings.Builder

	name := p.Name
	if name == "" {
		name = "[preset00]"
	}
	fmt.Fprintln(&b, name)

	writeFloatMap(&b, p.Parameters)

	writeEquations(&b, "per_frame_init_", p.OrderedPerFrameInit())
	writeEquations(&b, "per_frame_", p.OrderedPerFrame())
	writeEquations(&b, "per_pixel_", p.OrderedPerPixel())

	for n, w := range p.Waves {
		if w == nil {
			continue
		}
		fmt.Fprintf(&b, "wavecode_%d_enabled=%s\n", n, boolStr(w.Enabled))
		writeWaveShapeParams(&b, fmt.Sprintf("wavecode_%d_", n), w.Parameters)
		writeEquations(&b, fmt.Sprintf("wavecode_%d_init_", n), sortedByIndex(w.Init))
		writeWaveFrame(&b, n, sortedByIndex(w.PerFrame))
	}

	for n, s := range p.Shapes {
		if s == nil {
			continue
		}
		fmt.Fprintf(&b, "shapecode_%d_enabled=%s\n", n, boolStr(s.Enabled))
		writeWaveShapeParams(&b, fmt.Sprintf("shapecode_%d_", n), s.Parameters)
		writeEquations(&b, fmt.Sprintf("shapecode_%d_init_", n), sortedByIndex(s.Init))
		writeShapeFrame(&b, n, sortedByIndex(s.PerFrame))
	}

	if p.WarpShader != "" {
		for i, line := range strings.Split(p.WarpShader, "\n") {
			fmt.Fprintf(&b, "warp_%d=%s\n", i+1, line)
		}
	}
	if p.CompShader != "" {
		for i, line := range strings.Split(p.CompShader, "\n") {
			fmt.Fprintf(&b, "comp_%d=%s\n", i+1, line)
		}
	}

	writeUnknown(&b, p.UnknownKeys)

	return b.String()
}

func writeFloatMap(b *strings.Builder, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%s\n", k, strconv.FormatFloat(m[k], 'g', -1, 64))
	}
}

func writeWaveShapeParams(b *strings.Builder, prefix string, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s%s=%s\n", prefix, k, strconv.FormatFloat(m[k], 'g', -1, 64))
	}
}

func writeEquations(b *strings.Builder, prefix string, stmts []EquationStatement) {
	for _, s := range stmts {
		fmt.Fprintf(b, "%s%d=%s\n", prefix, s.Index, s.Text)
	}
}

func writeWaveFrame(b *strings.Builder, n int, stmts []EquationStatement) {
	for _, s := range stmts {
		fmt.Fprintf(b, "wavecode_%d_per_frame%d=%s\n", n, s.Index, s.Text)
	}
}

func writeShapeFrame(b *strings.Builder, n int, stmts []EquationStatement) {
	for _, s := range stmts {
		fmt.Fprintf(b, "shapecode_%d_per_frame%d=%s\n", n, s.Index, s.Text)
	}
}

func writeUnknown(b *strings.Builder, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%s\n", k, m[k])
	}
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
