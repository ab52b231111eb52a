package render

// softrefTexture is the reference Texture implementation: a flat
// []float32 buffer of (r, g, b, a) quadruples, the float-channel analog of
// the teacher's fixed OutputBuffer [320*200]uint32 framebuffer
// (internal/ppu/ppu.go).
type softrefTexture struct {
	width, height int
	format        TextureFormat
	pixels        []float32 // width*height*4
}

func newSoftrefTexture(desc TextureDescriptor) *softrefTexture {
	return &softrefTexture{
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		pixels: make([]float32, desc.Width*desc.Height*4),
	}
}

func (t *softrefTexture) Width() int            { return t.width }
func (t *softrefTexture) Height() int           { return t.height }
func (t *softrefTexture) Format() TextureFormat { return t.format }

func (t *softrefTexture) index(x, y int) int { return (y*t.width + x) * 4 }

func (t *softrefTexture) At(x, y int) [4]float32 {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return [4]float32{}
	}
	i := t.index(x, y)
	return [4]float32{t.pixels[i], t.pixels[i+1], t.pixels[i+2], t.pixels[i+3]}
}

func (t *softrefTexture) Set(x, y int, rgba [4]float32) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}
	i := t.index(x, y)
	t.pixels[i], t.pixels[i+1], t.pixels[i+2], t.pixels[i+3] = rgba[0], rgba[1], rgba[2], rgba[3]
}

type softrefPipeline struct{ name string }

func (p *softrefPipeline) Name() string { return p.name }

type softrefBindGroup struct {
	tex      Texture
	uniforms Uniforms
}

func (b *softrefBindGroup) Texture() Texture   { return b.tex }
func (b *softrefBindGroup) Uniforms() Uniforms { return b.uniforms }

// softrefEncoder implements CommandEncoder by running the composite and
// waveform math directly against software textures — no deferred command
// buffer, since there is no real GPU to submit to.
type softrefEncoder struct{}

func (softrefEncoder) RunCompositePass(_ Pipeline, src Texture, dst Texture, uniforms Uniforms, mesh *Mesh) {
	runCompositePass(src, dst, uniforms, mesh)
}

func (softrefEncoder) RunWaveformPass(dst Texture, wave WaveformParams, samples []float32) {
	runWaveformPass(dst, wave, samples)
}

func (softrefEncoder) Blit(src, dst Texture) {
	runBlit(src, dst)
}

type softrefQueue struct{}

func (softrefQueue) Submit(encoder CommandEncoder) {
	// softref passes run synchronously inside the RunXPass calls
	// themselves, so Submit is a no-op; a hardware backend would flush its
	// command buffer here.
}

// Softref is the software reference Device backend: every pass runs
// immediately and synchronously against plain float32 buffers. It exists
// so the render pipeline's transform math is testable without a real GPU.
type Softref struct{}

// NewSoftref creates a Softref device.
func NewSoftref() *Softref { return &Softref{} }

func (d *Softref) CreateTexture(desc TextureDescriptor) Texture {
	return newSoftrefTexture(desc)
}

func (d *Softref) CreatePipeline(name string) Pipeline {
	return &softrefPipeline{name: name}
}

func (d *Softref) CreateCommandEncoder() CommandEncoder {
	return softrefEncoder{}
}

func (d *Softref) Queue() Queue {
	return softrefQueue{}
}
