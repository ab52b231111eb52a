// Package engine implements the orchestrator that wires the preset parser,
// expression engine, audio analyzer, beat detector, preset manager, and
// render pipeline into the per-frame tick contract (spec.md §4.7, §6).
//
// The wiring shape is grounded on the teacher's internal/emulator.Emulator:
// NewEmulatorWithLogger constructs every component and connects their I/O
// handlers before returning; RunFrame then steps CPU, PPU, and APU in a
// fixed order once per frame, collecting audio samples along the way. Here
// the "components" are Analyzer, Detector, the expr.Env, and the render
// pipeline, and "stepping" is the tick sequence from spec.md §4.7 instead
// of cycle-accurate hardware emulation.
package engine

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"milkwarp/internal/audio"
	"milkwarp/internal/beat"
	"milkwarp/internal/engineconfig"
	"milkwarp/internal/expr"
	"milkwarp/internal/manager"
	"milkwarp/internal/milkerr"
	"milkwarp/internal/observability"
	"milkwarp/internal/preset"
	"milkwarp/internal/render"
)

// motionDefaults holds the MilkDrop-standard value a motion or color scalar
// takes when a preset's parameters don't mention it at all, per spec.md §3
// ("parameters: named static scalars... and ~40 others"). Parameters that
// are absent from the file default here rather than to 0.0, matching
// MilkDrop's own baseline preset (zoom=1, sx=sy=1, decay=1, centered cx/cy,
// opaque white waveform).
var motionDefaults = map[string]float64{
	"zoom": 1, "rot": 0, "cx": 0.5, "cy": 0.5,
	"dx": 0, "dy": 0, "sx": 1, "sy": 1,
	"warp": 0, "decay": 1,
	"wave_r": 1, "wave_g": 1, "wave_b": 1, "wave_a": 1,
	"wave_x": 0.5, "wave_y": 0.5, "wave_mode": 0,
	"wave_scale": 0.5, "wave_usedots": 0, "wave_thick": 0,
}

// Engine is the Host API surface from spec.md §6: New, LoadPreset, Resize,
// Tick, SetBeatMode, CurrentTexture.
type Engine struct {
	width, height int
	cfg           engineconfig.Config
	logger        *observability.Logger

	device   render.Device
	pipeline *render.RenderPipeline
	analyzer *audio.Analyzer
	detector *beat.Detector
	manager  *manager.Manager

	env   *expr.Env
	mesh  *render.Mesh
	shown map[string]bool // presets (by name) whose custom-shader notice has already logged

	current    *preset.Preset
	initBlock  *expr.Block
	frameBlock *expr.Block
	pixelBlock *expr.Block

	time  float64
	frame uint64
	fps   float64
}

// New constructs an Engine at the given logical render size, with every
// subsystem wired and an initial fallback preset loaded and running
// (spec.md §6 "new(width, height) -> Engine").
func New(width, height int, cfg engineconfig.Config, logger *observability.Logger) *Engine {
	if logger == nil {
		logger = observability.NewLogger(1000)
	}
	device := render.NewSoftref()
	e := &Engine{
		width: width, height: height,
		cfg:      cfg,
		logger:   logger,
		device:   device,
		pipeline: render.NewRenderPipeline(device, width, height),
		analyzer: audio.NewAnalyzer(cfg.SampleRate, cfg.RingCapacity),
		detector: beat.NewDetector(),
		env:      expr.NewEnv(),
		shown:    make(map[string]bool),
	}
	e.installPreset(parseFallback())
	return e
}

func parseFallback() *preset.Preset {
	p, _, err := preset.Parse(manager.FallbackPresetText())
	if err != nil {
		// FallbackPresetText is asserted valid by manager's own test suite;
		// this can only be reached if that invariant has been broken.
		panic(fmt.Sprintf("engine: compiled-in fallback preset is invalid: %v", err))
	}
	return p
}

// UseCatalog scans dir for .milk presets and attaches a preset.Manager so
// LoadPreset and beat-triggered transitions can navigate it
// (spec.md §4.6).
func (e *Engine) UseCatalog(dir string) error {
	locators, err := manager.ScanDirectory(dir, e.logger)
	if err != nil {
		return milkerr.Wrap(milkerr.IOError, "engine", err)
	}
	e.manager = manager.NewManager(locators)
	return nil
}

// LoadBeatConfig applies a YAML per-mode beat-detector override document on
// top of the compiled-in defaults (spec.md §4.5).
func (e *Engine) LoadBeatConfig(data []byte) error {
	settings, err := beat.LoadConfig(data)
	if err != nil {
		return err
	}
	e.detector.Settings = settings
	return nil
}

// SetBeatMode changes the active beat-detection mode (spec.md §6).
func (e *Engine) SetBeatMode(mode beat.Mode) {
	e.detector.SetMode(mode)
}

// Resize recreates the ping-pong texture pair at a new logical size
// (spec.md §6 "resize(width, height)").
func (e *Engine) Resize(width, height int) {
	e.width, e.height = width, height
	e.pipeline.Resize(width, height)
}

// CurrentTexture returns the frame most recently written by Tick, for
// presentation (spec.md §6 "current_texture() -> TextureHandle").
func (e *Engine) CurrentTexture() render.Texture {
	return e.pipeline.Prev()
}

// LoadPreset loads a preset by catalog path (if a catalog is attached via
// UseCatalog) or parses pathOrText directly as preset source, resets the
// environment, and runs its per_frame_init block once. A preset that fails
// to load or validate yields the compiled-in fallback with a warning log
// rather than an error (spec.md §6, §7: "a preset that fails to load yields
// the default preset with a log warning").
func (e *Engine) LoadPreset(pathOrText string) error {
	p := e.resolvePreset(pathOrText)
	if err := checkBlockSize(p, e.cfg); err != nil {
		e.logger.Logf(observability.ComponentEngine, observability.LevelWarning,
			"preset %q exceeds block size ceiling, using fallback: %v", p.Name, err)
		p = parseFallback()
	}
	e.installPreset(p)
	return nil
}

func (e *Engine) resolvePreset(pathOrText string) *preset.Preset {
	if e.manager != nil {
		p, err := e.manager.SafeLoad(pathOrText)
		if err != nil {
			e.logger.Logf(observability.ComponentEngine, observability.LevelWarning, "load_preset: %v", err)
		}
		return p
	}

	if data, err := os.ReadFile(pathOrText); err == nil {
		if p, diags, perr := preset.Parse(string(data)); perr == nil {
			logDiagnostics(e.logger, diags)
			return p
		}
	}

	if !strings.Contains(pathOrText, "=") {
		// Neither a readable file nor preset text (no KEY=VALUE line).
		e.logger.Logf(observability.ComponentEngine, observability.LevelWarning, "load_preset: %q is not a readable file or preset text, using fallback", pathOrText)
		return parseFallback()
	}

	p, diags, err := preset.Parse(pathOrText)
	if err != nil {
		e.logger.Logf(observability.ComponentEngine, observability.LevelWarning, "load_preset parse error, using fallback: %v", err)
		return parseFallback()
	}
	logDiagnostics(e.logger, diags)
	return p
}

func logDiagnostics(logger *observability.Logger, diags []milkerr.Error) {
	for _, d := range diags {
		logger.Log(observability.ComponentPreset, observability.LevelWarning, d.Error(), nil)
	}
}

// checkBlockSize enforces spec.md §5's per-statement (100 KB) and
// per-frame-block-total (default 1 MB) source size ceilings.
func checkBlockSize(p *preset.Preset, cfg engineconfig.Config) error {
	total := 0
	for _, stmt := range p.PerFrame {
		if len(stmt.Text) > 100*1024 {
			return fmt.Errorf("statement %d exceeds 100 KB", stmt.Index)
		}
		total += len(stmt.Text)
	}
	if total > cfg.MaxPerFrameBlockBytes {
		return fmt.Errorf("per_frame block totals %d bytes, exceeding ceiling of %d", total, cfg.MaxPerFrameBlockBytes)
	}
	return nil
}

func (e *Engine) installPreset(p *preset.Preset) {
	e.current = p
	e.env = expr.NewEnv()

	initBlock, initErrs := expr.CompileBlock(joinOrdered(p.OrderedPerFrameInit()))
	frameBlock, frameErrs := expr.CompileBlock(joinOrdered(p.OrderedPerFrame()))
	pixelRaw := joinOrdered(p.OrderedPerPixel())
	var pixelBlock *expr.Block
	var pixelErrs []error
	if pixelRaw != "" {
		pixelBlock, pixelErrs = expr.CompileBlock(pixelRaw)
	}
	for _, err := range append(append(initErrs, frameErrs...), pixelErrs...) {
		e.logger.Logf(observability.ComponentExpr, observability.LevelWarning, "compile: %v", err)
	}

	e.initBlock = initBlock
	e.frameBlock = frameBlock
	e.pixelBlock = pixelBlock

	if pixelBlock != nil {
		e.mesh = render.NewMesh(e.cfg.MeshWidth, e.cfg.MeshHeight)
	} else {
		e.mesh = nil
	}

	if (p.WarpShader != "" || p.CompShader != "") && !e.shown[p.Name] {
		e.logger.Log(observability.ComponentEngine, observability.LevelInfo,
			"custom shader present; using fixed pipeline", nil)
		e.shown[p.Name] = true
	}

	e.seedMotionScalars(p)
	e.initBlock.Eval(e.env)
}

func joinOrdered(stmts []preset.EquationStatement) string {
	out := ""
	for i, s := range stmts {
		if i > 0 {
			out += "\n"
		}
		out += s.Text
	}
	return out
}

// seedMotionScalars copies the preset's static motion/color parameters into
// the environment as their starting values (spec.md §4.7 step 4).
func (e *Engine) seedMotionScalars(p *preset.Preset) {
	for key, def := range motionDefaults {
		if v, ok := p.Parameters[key]; ok {
			e.env.Set(key, v)
		} else {
			e.env.Set(key, def)
		}
	}
}

// Tick advances the engine by one frame (spec.md §4.7's eight-step
// contract) and returns a beat-triggered preset-change request, if any.
func (e *Engine) Tick(dt time.Duration, audioWindow []float32) *beat.PresetChange {
	dtSeconds := dt.Seconds()
	if dtSeconds <= 0 {
		dtSeconds = 1.0 / 60.0
	}
	e.time += dtSeconds
	e.frame++
	e.fps = 1.0 / dtSeconds
	if e.cfg.TargetFPS > 0 && e.fps > e.cfg.TargetFPS {
		e.fps = e.cfg.TargetFPS
	}

	e.analyzer.PushSamples(audioWindow)
	bands := e.analyzer.Analyze(e.cfg.AnalysisWindow)
	e.env.Set("bass", bands.Bass)
	e.env.Set("mid", bands.Mid)
	e.env.Set("treb", bands.Treb)
	e.env.Set("bass_att", bands.BassAtt)
	e.env.Set("mid_att", bands.MidAtt)
	e.env.Set("treb_att", bands.TrebAtt)
	e.env.Set("vol", bands.Vol)
	e.env.Set("time", e.time)
	e.env.Set("frame", float64(e.frame))
	e.env.Set("fps", e.fps)
	if e.width > 0 {
		e.env.Set("aspecty", float64(e.height)/float64(e.width))
	}

	// bass_extreme has no analyzer column of its own; it emphasizes peaks
	// in the bass band for HardCut6's tagged-preset trigger.
	bassExtreme := bands.Bass * bands.Bass
	tickTime := time.Unix(0, int64(e.time*float64(time.Second)))
	change, beatVal := e.detector.Tick(tickTime, dt, beat.BandValues{
		Bass: bands.Bass, Mid: bands.Mid, Treb: bands.Treb, BassExtreme: bassExtreme,
	})
	e.env.Set("beat", beatVal)

	e.env.ClearFaults()
	e.seedMotionScalars(e.current)
	e.frameBlock.Eval(e.env)

	uniforms := e.buildUniforms()

	if e.mesh != nil {
		e.runPixelBlock(uniforms)
	}

	wave := e.buildWaveform()
	e.pipeline.RenderFrame(uniforms, e.mesh, &wave, audioWindow)

	return change
}

func (e *Engine) buildUniforms() render.Uniforms {
	flag := func(key string) uint32 {
		if e.current.Parameters[key] != 0 {
			return 1
		}
		return 0
	}
	return render.Uniforms{
		ResolutionX: float32(e.width), ResolutionY: float32(e.height),
		Time:  float32(e.time),
		Decay: float32(e.env.Get("decay")),
		Zoom:  float32(e.env.Get("zoom")),
		Rot:   float32(e.env.Get("rot")),
		CX:    float32(e.env.Get("cx")),
		CY:    float32(e.env.Get("cy")),
		DX:    float32(e.env.Get("dx")),
		DY:    float32(e.env.Get("dy")),
		SX:    float32(e.env.Get("sx")),
		SY:    float32(e.env.Get("sy")),
		Warp:  float32(e.env.Get("warp")),

		FlagBrighten: flag("brighten"),
		FlagDarken:   flag("darken"),
		FlagSolarize: flag("solarize"),
		FlagInvert:   flag("invert"),
	}
}

// runPixelBlock evaluates the per_pixel block once per mesh vertex,
// binding x/y/rad/ang per spec.md §4.2, starting each vertex from the
// frame-resolved motion scalars (not chained across vertices), and
// harvesting the result into the mesh's per-vertex warped UV.
func (e *Engine) runPixelBlock(baseline render.Uniforms) {
	baselineScalars := map[string]float64{
		"zoom": float64(baseline.Zoom), "rot": float64(baseline.Rot),
		"cx": float64(baseline.CX), "cy": float64(baseline.CY),
		"dx": float64(baseline.DX), "dy": float64(baseline.DY),
		"sx": float64(baseline.SX), "sy": float64(baseline.SY),
		"warp": float64(baseline.Warp),
	}

	w, h := e.mesh.Width, e.mesh.Height
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			for k, v := range baselineScalars {
				e.env.Set(k, v)
			}
			x := float64(i) / math.Max(float64(w-1), 1)
			y := float64(j) / math.Max(float64(h-1), 1)
			e.env.Set("x", x)
			e.env.Set("y", y)
			e.env.Set("rad", math.Hypot(x-0.5, y-0.5)*math.Sqrt2)
			e.env.Set("ang", math.Atan2(y-0.5, x-0.5))

			e.pixelBlock.Eval(e.env)

			v := render.Uniforms{
				Time: baseline.Time,
				Zoom: float32(e.env.Get("zoom")), Rot: float32(e.env.Get("rot")),
				CX: float32(e.env.Get("cx")), CY: float32(e.env.Get("cy")),
				DX: float32(e.env.Get("dx")), DY: float32(e.env.Get("dy")),
				SX: float32(e.env.Get("sx")), SY: float32(e.env.Get("sy")),
				Warp: float32(e.env.Get("warp")),
			}
			e.mesh.SetWarpedFromUniforms(i, j, v)
		}
	}

	for k, v := range baselineScalars {
		e.env.Set(k, v)
	}
}

func (e *Engine) buildWaveform() render.WaveformParams {
	p := e.current.Parameters
	get := func(key string, def float64) float64 {
		if v, ok := p[key]; ok {
			return v
		}
		return def
	}
	return render.WaveformParams{
		Mode:         int(e.env.Get("wave_mode")),
		Scale:        float32(get("wave_scale", 0.5)),
		R:            float32(e.env.Get("wave_r")),
		G:            float32(e.env.Get("wave_g")),
		B:            float32(e.env.Get("wave_b")),
		A:            float32(e.env.Get("wave_a")),
		X:            float32(e.env.Get("wave_x") - 0.5),
		Y:            float32(e.env.Get("wave_y") - 0.5),
		DotsNotLines: get("wave_usedots", 0) != 0,
		Thickness:    float32(get("wave_thick", 0)),
	}
}
