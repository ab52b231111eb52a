// Package preset holds the MilkDrop preset data model: parsed parameters,
// ordered equation blocks, optional waveform/shape substructures, and shader
// source blobs (spec.md §3, §4.1).
//
// The struct shape is grounded on the teacher's internal/corelx AST design
// (internal/corelx/ast.go) in spirit only — a MilkDrop preset has no nested
// expression tree of its own, just named blocks of verbatim equation text,
// so the model here is a flat record rather than a tree.
package preset

// EquationStatement pairs a raw right-hand-side statement with the numeric
// suffix that fixed its position in the source (spec.md §4.1: "numeric
// suffixes define execution order... gaps are permitted but order follows
// numeric ascending").
type EquationStatement struct {
	Index int
	Text  string
}

// Wave is an optional custom waveform substructure (wavecode_N_*).
type Wave struct {
	Enabled    bool
	Parameters map[string]float64
	Init       []EquationStatement
	PerFrame   []EquationStatement
}

// Shape is an optional custom shape substructure (shapecode_N_*).
type Shape struct {
	Enabled    bool
	Parameters map[string]float64
	Init       []EquationStatement
	PerFrame   []EquationStatement
}

// Preset is the parsed form of a single MilkDrop text preset.
type Preset struct {
	Name string

	// Parameters holds every recognized static scalar (zoom, rot, cx, cy,
	// dx, dy, sx, sy, warp, decay, wave_r/g/b/a, wave_mode, and the rest of
	// the ~40-odd MilkDrop scalar parameters) plus any unrecognized
	// KEY=FLOAT pair that parsed cleanly as a float (spec.md §4.1 edge
	// policy: "values of unknown scalar parameters are parsed as float when
	// possible").
	Parameters map[string]float64

	PerFrameInit []EquationStatement
	PerFrame     []EquationStatement
	PerPixel     []EquationStatement

	Waves  [5]*Wave
	Shapes [5]*Shape

	WarpShader string
	CompShader string

	// UnknownKeys preserves the verbatim right-hand side of every key the
	// parser did not recognize and could not parse as a float, keyed by the
	// original (lowercased) key text, so a round-trip Serialize reproduces
	// them rather than silently discarding preset data the parser doesn't
	// understand yet.
	UnknownKeys map[string]string
}

// New returns an empty Preset with all maps/slots allocated.
func New() *Preset {
	p := &Preset{
		Parameters:  make(map[string]float64),
		UnknownKeys: make(map[string]string),
	}
	return p
}

func sortedByIndex(stmts []EquationStatement) []EquationStatement {
	out := make([]EquationStatement, len(stmts))
	copy(out, stmts)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Index < out[j-1].Index; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// OrderedPerFrame returns the per-frame block in ascending numeric-suffix
// order, tolerating suffix gaps.
func (p *Preset) OrderedPerFrame() []EquationStatement { return sortedByIndex(p.PerFrame) }

// OrderedPerFrameInit returns the per-frame-init block in ascending order.
func (p *Preset) OrderedPerFrameInit() []EquationStatement { return sortedByIndex(p.PerFrameInit) }

// OrderedPerPixel returns the per-pixel block in ascending order.
func (p *Preset) OrderedPerPixel() []EquationStatement { return sortedByIndex(p.PerPixel) }
