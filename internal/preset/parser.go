package preset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"milkwarp/internal/milkerr"
)

// MaxFileSize is the maximum accepted preset source size (spec.md §4.1).
const MaxFileSize = 10 * 1024 * 1024

// MaxLineSize is the maximum accepted single-line/statement length.
const MaxLineSize = 100 * 1024

var (
	sectionPattern         = regexp.MustCompile(`^\[preset\d*]$`)
	perFrameInitPattern    = regexp.MustCompile(`^per_frame_init_(\d+)$`)
	perFramePattern        = regexp.MustCompile(`^per_frame_(\d+)$`)
	perPixelPattern        = regexp.MustCompile(`^per_pixel_(\d+)$`)
	wavecodeEnabledPattern = regexp.MustCompile(`^wavecode_(\d)_enabled$`)
	wavecodeInitPattern    = regexp.MustCompile(`^wavecode_(\d)_init_(\d+)$`)
	wavecodeFramePattern   = regexp.MustCompile(`^wavecode_(\d)_per_frame(\d+)$`)
	wavecodeParamPattern   = regexp.MustCompile(`^wavecode_(\d)_([a-z_]+)$`)
	shapecodeEnabledPat    = regexp.MustCompile(`^shapecode_(\d)_enabled$`)
	shapecodeInitPattern   = regexp.MustCompile(`^shapecode_(\d)_init_(\d+)$`)
	shapecodeFramePattern  = regexp.MustCompile(`^shapecode_(\d)_per_frame(\d+)$`)
	shapecodeParamPattern  = regexp.MustCompile(`^shapecode_(\d)_([a-z_]+)$`)
	warpShaderPattern      = regexp.MustCompile(`^warp_(\d+)$`)
	compShaderPattern      = regexp.MustCompile(`^comp_(\d+)$`)
)

// Parse parses a MilkDrop preset text blob. It never returns an error for
// malformed individual lines — those become UnknownKeys or are skipped —
// but does return a *milkerr.Error for structural violations (oversized
// file, oversized line) that make the blob unparseable at all.
func Parse(source string) (*Preset, []milkerr.Error, error) {
	if len(source) > MaxFileSize {
		return nil, nil, milkerr.New(milkerr.ParseError, "preset", fmt.Sprintf("source exceeds max file size of %d bytes", MaxFileSize))
	}
	source = toUTF8(source)

	p := New()
	var diagnostics []milkerr.Error

	lines := strings.Split(source, "\n")
	warpShaderLines := map[int]string{}
	compShaderLines := map[int]string{}

	for lineNo, rawLine := range lines {
		line := strings.TrimRight(rawLine, "\r")
		if len(line) > MaxLineSize {
			return nil, nil, milkerr.New(milkerr.ParseError, "preset",
				fmt.Sprintf("line %d exceeds max line size of %d bytes", lineNo+1, MaxLineSize)).AtLine(lineNo+1, 0)
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if sectionPattern.MatchString(strings.ToLower(trimmed)) {
			p.Name = trimmed
			continue
		}

		eq := strings.IndexByte(trimmed, '=')
		if eq < 0 {
			diagnostics = append(diagnostics, *milkerr.New(milkerr.ParseError, "preset",
				fmt.Sprintf("line %d: expected KEY=VALUE, got %q", lineNo+1, trimmed)).
				WithSeverity(milkerr.SeverityWarning).AtLine(lineNo+1, 0))
			continue
		}

		key := strings.ToLower(strings.TrimSpace(trimmed[:eq]))
		value := strings.TrimSpace(trimmed[eq+1:])

		switch {
		case warpShaderPattern.MatchString(key):
			idx := shaderIndex(warpShaderPattern, key)
			warpShaderLines[idx] = value
		case compShaderPattern.MatchString(key):
			idx := shaderIndex(compShaderPattern, key)
			compShaderLines[idx] = value
		case perFrameInitPattern.MatchString(key):
			idx := atoiMatch(perFrameInitPattern, key, 1)
			p.PerFrameInit = append(p.PerFrameInit, EquationStatement{Index: idx, Text: value})
		case perFramePattern.MatchString(key):
			idx := atoiMatch(perFramePattern, key, 1)
			p.PerFrame = append(p.PerFrame, EquationStatement{Index: idx, Text: value})
		case perPixelPattern.MatchString(key):
			idx := atoiMatch(perPixelPattern, key, 1)
			p.PerPixel = append(p.PerPixel, EquationStatement{Index: idx, Text: value})

		case wavecodeEnabledPattern.MatchString(key):
			n := atoiMatch(wavecodeEnabledPattern, key, 1)
			w := waveSlot(p, n)
			w.Enabled = parseBool(value)
		case wavecodeInitPattern.MatchString(key):
			m := wavecodeInitPattern.FindStringSubmatch(key)
			n, idx := mustAtoi(m[1]), mustAtoi(m[2])
			w := waveSlot(p, n)
			w.Init = append(w.Init, EquationStatement{Index: idx, Text: value})
		case wavecodeFramePattern.MatchString(key):
			m := wavecodeFramePattern.FindStringSubmatch(key)
			n, idx := mustAtoi(m[1]), mustAtoi(m[2])
			w := waveSlot(p, n)
			w.PerFrame = append(w.PerFrame, EquationStatement{Index: idx, Text: value})
		case wavecodeParamPattern.MatchString(key):
			m := wavecodeParamPattern.FindStringSubmatch(key)
			n := mustAtoi(m[1])
			w := waveSlot(p, n)
			if f, ok := parseFloat(value); ok {
				w.Parameters[m[2]] = f
			} else {
				p.UnknownKeys[key] = value
			}

		case shapecodeEnabledPat.MatchString(key):
			n := atoiMatch(shapecodeEnabledPat, key, 1)
			s := shapeSlot(p, n)
			s.Enabled = parseBool(value)
		case shapecodeInitPattern.MatchString(key):
			m := shapecodeInitPattern.FindStringSubmatch(key)
			n, idx := mustAtoi(m[1]), mustAtoi(m[2])
			s := shapeSlot(p, n)
			s.Init = append(s.Init, EquationStatement{Index: idx, Text: value})
		case shapecodeFramePattern.MatchString(key):
			m := shapecodeFramePattern.FindStringSubmatch(key)
			n, idx := mustAtoi(m[1]), mustAtoi(m[2])
			s := shapeSlot(p, n)
			s.PerFrame = append(s.PerFrame, EquationStatement{Index: idx, Text: value})
		case shapecodeParamPattern.MatchString(key):
			m := shapecodeParamPattern.FindStringSubmatch(key)
			n := mustAtoi(m[1])
			s := shapeSlot(p, n)
			if f, ok := parseFloat(value); ok {
				s.Parameters[m[2]] = f
			} else {
				p.UnknownKeys[key] = value
			}

		default:
			if f, ok := parseFloat(value); ok {
				p.Parameters[key] = f
			} else {
				p.UnknownKeys[key] = value
				diagnostics = append(diagnostics, *milkerr.New(milkerr.ParseError, "preset",
					fmt.Sprintf("unrecognized key %q", key)).
					WithSeverity(milkerr.SeverityWarning).AtLine(lineNo+1, 0))
			}
		}
	}

	p.WarpShader = joinShaderLines(warpShaderLines)
	p.CompShader = joinShaderLines(compShaderLines)

	return p, diagnostics, nil
}

func waveSlot(p *Preset, n int) *Wave {
	if n < 0 || n >= len(p.Waves) {
		n = 0
	}
	if p.Waves[n] == nil {
		p.Waves[n] = &Wave{Parameters: make(map[string]float64)}
	}
	return p.Waves[n]
}

func shapeSlot(p *Preset, n int) *Shape {
	if n < 0 || n >= len(p.Shapes) {
		n = 0
	}
	if p.Shapes[n] == nil {
		p.Shapes[n] = &Shape{Parameters: make(map[string]float64)}
	}
	return p.Shapes[n]
}

func atoiMatch(re *regexp.Regexp, key string, group int) int {
	m := re.FindStringSubmatch(key)
	return mustAtoi(m[group])
}

func mustAtoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func shaderIndex(re *regexp.Regexp, key string) int {
	m := re.FindStringSubmatch(key)
	if m == nil {
		return 1
	}
	return mustAtoi(m[1])
}

func joinShaderLines(lines map[int]string) string {
	if len(lines) == 0 {
		return ""
	}
	max := 0
	for idx := range lines {
		if idx > max {
			max = idx
		}
	}
	var b strings.Builder
	for i := 1; i <= max; i++ {
		if line, ok := lines[i]; ok {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseBool(s string) bool {
	v, ok := parseFloat(s)
	if !ok {
		return strings.EqualFold(s, "true")
	}
	return v != 0
}

// toUTF8 tolerates Latin-1 input by promoting any byte sequence that isn't
// already valid UTF-8 to its Latin-1-as-Unicode equivalent (spec.md §6:
// "UTF-8 or Latin-1 tolerated; normalize to UTF-8 on read").
func toUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		b.WriteRune(rune(s[i]))
	}
	return b.String()
}
