package render

import (
	"math"
	"testing"
)

func TestUniformsRoundTrip(t *testing.T) {
	u := Uniforms{
		ResolutionX: 1920, ResolutionY: 1080,
		Time: 12.5, Decay: 0.98,
		Zoom: 1.05, Rot: 0.01,
		CX: 0.5, CY: 0.5,
		DX: 0.01, DY: -0.02,
		SX: 1.0, SY: 1.0,
		Warp:         0.3,
		FlagBrighten: 1,
		FlagInvert:   0,
	}
	packed := u.Bytes()
	if len(packed) != UniformsSize {
		t.Fatalf("Bytes() length = %d, want %d", len(packed), UniformsSize)
	}
	parsed, err := ParseUniforms(packed[:])
	if err != nil {
		t.Fatalf("ParseUniforms: %v", err)
	}
	if parsed != u {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", parsed, u)
	}
}

func TestParseUniformsRejectsWrongSize(t *testing.T) {
	_, err := ParseUniforms(make([]byte, 10))
	if err == nil {
		t.Fatal("expected an error for a wrong-size buffer")
	}
}

func TestUniformsLayoutOffsets(t *testing.T) {
	u := Uniforms{ResolutionX: 1, ResolutionY: 2, Time: 3, Decay: 4}
	b := u.Bytes()
	if getF32(b[0:4]) != 1 {
		t.Error("resolution.x should be at offset 0")
	}
	if getF32(b[4:8]) != 2 {
		t.Error("resolution.y should be at offset 4")
	}
	if getF32(b[8:12]) != 3 {
		t.Error("time should be at offset 8")
	}
	if getF32(b[12:16]) != 4 {
		t.Error("decay should be at offset 12")
	}
}

func TestSoftrefTextureSetAt(t *testing.T) {
	device := NewSoftref()
	tex := device.CreateTexture(TextureDescriptor{Width: 4, Height: 4, Format: TextureFormatBGRA8UnormSRGB})
	tex.Set(2, 2, [4]float32{0.5, 0.25, 0.1, 1})
	got := tex.At(2, 2)
	want := [4]float32{0.5, 0.25, 0.1, 1}
	if got != want {
		t.Errorf("At(2,2) = %v, want %v", got, want)
	}
}

func TestWrapFractSamplingOutOfUnitSquare(t *testing.T) {
	device := NewSoftref()
	tex := device.CreateTexture(TextureDescriptor{Width: 4, Height: 4})
	tex.Set(0, 0, [4]float32{1, 1, 1, 1})

	// u=1.0 should wrap to u=0.0, not clamp to the rightmost column.
	c := sampleWrapped(tex, 1.0, 0.0)
	if c[0] != 1 {
		t.Errorf("wrapped sample at u=1.0 should read pixel (0,0), got %v", c)
	}
}

func TestRunCompositePassAppliesDecay(t *testing.T) {
	device := NewSoftref()
	src := device.CreateTexture(TextureDescriptor{Width: 8, Height: 8})
	dst := device.CreateTexture(TextureDescriptor{Width: 8, Height: 8})
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, [4]float32{1, 1, 1, 1})
		}
	}
	u := Uniforms{Zoom: 1, SX: 1, SY: 1, Decay: 0.5}
	runCompositePass(src, dst, u, nil)

	center := dst.At(4, 4)
	if center[0] > 0.6 || center[0] < 0.4 {
		t.Errorf("decayed center pixel = %v, want ~0.5", center[0])
	}
}

func TestRunCompositePassIdentityPreservesImageWhenNoMotion(t *testing.T) {
	device := NewSoftref()
	src := device.CreateTexture(TextureDescriptor{Width: 8, Height: 8})
	dst := device.CreateTexture(TextureDescriptor{Width: 8, Height: 8})
	src.Set(4, 4, [4]float32{0.3, 0.6, 0.9, 1})
	u := Uniforms{Zoom: 1, SX: 1, SY: 1, Decay: 1, CX: 0.5, CY: 0.5}
	runCompositePass(src, dst, u, nil)

	got := dst.At(4, 4)
	if math.Abs(float64(got[0]-0.3)) > 0.05 {
		t.Errorf("identity transform should preserve pixel value approximately, got %v", got)
	}
}

func TestEffectFlagInvert(t *testing.T) {
	c := applyEffectFlags([4]float32{0.2, 0.8, 1.0, 1.0}, EffectFlags{Invert: true})
	if math.Abs(float64(c[0]-0.8)) > 1e-6 {
		t.Errorf("inverted r = %v, want 0.8", c[0])
	}
}

func TestRenderPipelineSwapsPrevCurr(t *testing.T) {
	device := NewSoftref()
	p := NewRenderPipeline(device, 16, 16)
	firstCurr := p.Curr()
	p.RenderFrame(Uniforms{Zoom: 1, SX: 1, SY: 1, Decay: 1}, nil, nil, nil)
	if p.Prev() != firstCurr {
		t.Error("after one RenderFrame, Prev() should be the texture that was Curr() before rendering")
	}
}

func TestMeshBaseUVMatchesPerPixelBinding(t *testing.T) {
	mesh := NewMesh(DefaultMeshWidth, DefaultMeshHeight)
	v := mesh.at(0, 0)
	if v.BaseU != -0.5 || v.BaseV != -0.5 {
		t.Errorf("corner vertex base UV = (%v, %v), want (-0.5, -0.5)", v.BaseU, v.BaseV)
	}
	last := mesh.at(mesh.Width-1, mesh.Height-1)
	if last.BaseU != 0.5 || last.BaseV != 0.5 {
		t.Errorf("opposite corner vertex base UV = (%v, %v), want (0.5, 0.5)", last.BaseU, last.BaseV)
	}
}

func TestRunBlitResamplesMismatchedSizes(t *testing.T) {
	device := NewSoftref()
	src := device.CreateTexture(TextureDescriptor{Width: 2, Height: 2})
	dst := device.CreateTexture(TextureDescriptor{Width: 4, Height: 4})
	src.Set(0, 0, [4]float32{1, 0, 0, 1})
	src.Set(1, 1, [4]float32{0, 0, 1, 1})
	runBlit(src, dst)
	if dst.At(0, 0)[0] != 1 {
		t.Error("blit should resample top-left quadrant from src(0,0)")
	}
	if dst.At(3, 3)[2] != 1 {
		t.Error("blit should resample bottom-right quadrant from src(1,1)")
	}
}
