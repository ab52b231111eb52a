package render

// RenderPipeline wires a Device's resources into the ping-pong feedback loop
// (spec.md §4.3). It owns T0/T1, swapping which is "prev" (read) and
// "curr" (write) each frame.
type RenderPipeline struct {
	device Device

	t0, t1  Texture
	currIdx int // 0 means t0 is curr, 1 means t1 is curr

	pipeline Pipeline
	width, height int
}

// NewRenderPipeline creates the ping-pong texture pair at the given logical
// size, preferring BGRA8 sRGB to match the swapchain color format
// (spec.md §4.3).
func NewRenderPipeline(device Device, width, height int) *RenderPipeline {
	desc := TextureDescriptor{
		Width: width, Height: height,
		Format: TextureFormatBGRA8UnormSRGB,
		Usage:  TextureUsageTextureBinding | TextureUsageRenderAttachment | TextureUsageCopySrc | TextureUsageCopyDst,
	}
	return &RenderPipeline{
		device:   device,
		t0:       device.CreateTexture(desc),
		t1:       device.CreateTexture(desc),
		pipeline: device.CreatePipeline("composite"),
		width:    width, height: height,
	}
}

// Prev returns the texture written last frame (the composite pass's
// sampling input).
func (p *RenderPipeline) Prev() Texture {
	if p.currIdx == 0 {
		return p.t1
	}
	return p.t0
}

// Curr returns the texture this frame writes into.
func (p *RenderPipeline) Curr() Texture {
	if p.currIdx == 0 {
		return p.t0
	}
	return p.t1
}

// Resize recreates the ping-pong pair at a new logical size. Prior frame
// content does not carry over; a resize always starts from a cleared
// feedback loop.
func (p *RenderPipeline) Resize(width, height int) {
	desc := TextureDescriptor{
		Width: width, Height: height,
		Format: TextureFormatBGRA8UnormSRGB,
		Usage:  TextureUsageTextureBinding | TextureUsageRenderAttachment | TextureUsageCopySrc | TextureUsageCopyDst,
	}
	p.t0 = p.device.CreateTexture(desc)
	p.t1 = p.device.CreateTexture(desc)
	p.width, p.height = width, height
}

// RenderFrame runs the composite pass (optionally through mesh) and the
// optional waveform overlay, then swaps prev/curr roles (spec.md §4.3:
// "After composite and waveform passes, curr is presented; roles swap").
func (p *RenderPipeline) RenderFrame(uniforms Uniforms, mesh *Mesh, wave *WaveformParams, pcmWindow []float32) Texture {
	encoder := p.device.CreateCommandEncoder()
	src, dst := p.Prev(), p.Curr()

	encoder.RunCompositePass(p.pipeline, src, dst, uniforms, mesh)
	if wave != nil {
		encoder.RunWaveformPass(dst, *wave, pcmWindow)
	}
	p.device.Queue().Submit(encoder)

	p.currIdx = 1 - p.currIdx
	return dst
}

// PresentTo blits curr onto a swapchain-owned surface texture, which may
// not share curr's internal format or size (spec.md §4.3 "Surface
// presentation").
func (p *RenderPipeline) PresentTo(surface Texture) {
	encoder := p.device.CreateCommandEncoder()
	encoder.Blit(p.Prev(), surface) // Prev() is the frame just rendered, post-swap
	p.device.Queue().Submit(encoder)
}
