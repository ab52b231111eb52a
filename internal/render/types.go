// Package render implements the feedback compositor: a ping-pong texture
// pair, a composite pass performing the rotate/zoom/stretch/translate/warp
// transform, an optional per-pixel mesh warp, and a waveform overlay
// (spec.md §4.3).
//
// The spec names no concrete GPU API. Device/Queue/Texture/Pipeline/
// BindGroup/CommandEncoder model the narrow slice of a WebGPU-shaped API
// this pipeline actually needs; softref.go implements them over plain
// []float32 buffers so the pipeline is fully testable without real GPU
// hardware. Naming follows other_examples/8856073b_gogpu-gg's
// TextureFormat/BufferUsage/TextureUsage/BindingType conventions.
package render

// TextureFormat identifies a texture's pixel layout.
type TextureFormat uint32

const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatRGBA8Unorm
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSRGB
	TextureFormatRGBA32Float
)

// TextureUsage is a bitmask of permitted operations on a texture.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageRenderAttachment
)

// TextureDescriptor describes a texture to be created by a Device.
type TextureDescriptor struct {
	Width, Height int
	Format        TextureFormat
	Usage         TextureUsage
}

// Texture is a 2D color buffer. Pixels are stored as four float32 channels
// (r, g, b, a) regardless of Format, mirroring the teacher's fixed-size
// OutputBuffer framebuffer (internal/ppu/ppu.go) generalized from packed
// uint32 to float-per-channel so composite math never round-trips through
// integer quantization mid-pipeline.
type Texture interface {
	Width() int
	Height() int
	Format() TextureFormat
	// At returns the (r, g, b, a) value at pixel (x, y), each in [0, 1].
	At(x, y int) [4]float32
	// Set writes the (r, g, b, a) value at pixel (x, y).
	Set(x, y int, rgba [4]float32)
}

// Pipeline is an opaque compiled shader/fixed-function program handle.
type Pipeline interface {
	Name() string
}

// BindGroup is an opaque resource-binding handle (texture + sampler +
// uniform buffer) attached to a draw call.
type BindGroup interface {
	Texture() Texture
	Uniforms() Uniforms
}

// CommandEncoder records a sequence of passes to submit to a Queue.
type CommandEncoder interface {
	// RunCompositePass samples src through the warp/composite transform
	// and writes the result into dst.
	RunCompositePass(pipeline Pipeline, src Texture, dst Texture, uniforms Uniforms, mesh *Mesh)
	// RunWaveformPass additively draws a waveform overlay into dst.
	RunWaveformPass(dst Texture, wave WaveformParams, samples []float32)
	// Blit copies src into dst, resampling if dimensions or formats differ.
	Blit(src, dst Texture)
}

// Queue submits recorded command encoders for execution.
type Queue interface {
	Submit(encoder CommandEncoder)
}

// Device creates textures, pipelines, and command encoders. The engine
// owns one Device for its lifetime and shares it by reference with the
// render pipeline and any external presenter (spec.md §6 "Shared GPU
// device").
type Device interface {
	CreateTexture(desc TextureDescriptor) Texture
	CreatePipeline(name string) Pipeline
	CreateCommandEncoder() CommandEncoder
	Queue() Queue
}
