package render

import "math"

// runCompositePass implements spec.md §4.3's composite pass: for every
// output pixel, transform its centered UV through rotate/zoom/stretch/
// translate/warp, sample prev with wraparound, apply decay and effect
// flags, and write the result to dst.
//
// When mesh is non-nil (a per_pixel block is present), the per-vertex
// warped UV from the mesh is bilinearly interpolated across each quad and
// used in place of the analytic transform (spec.md §4.3 "Per-pixel mesh
// warp... replace the composite pass sampling with a mesh of WxH quads").
func runCompositePass(src, dst Texture, u Uniforms, mesh *Mesh) {
	flags := EffectFlags{
		Brighten: u.FlagBrighten != 0,
		Darken:   u.FlagDarken != 0,
		Solarize: u.FlagSolarize != 0,
		Invert:   u.FlagInvert != 0,
	}

	w, h := dst.Width(), dst.Height()
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			centeredU := float32(px)/float32(w) - 0.5
			centeredV := float32(py)/float32(h) - 0.5

			var warpedU, warpedV float32
			if mesh != nil {
				warpedU, warpedV = sampleMeshUV(mesh, float32(px)/float32(w), float32(py)/float32(h))
			} else {
				t := transformUV(meshVec2(centeredU, centeredV), u)
				warpedU, warpedV = t[0], t[1]
			}

			sampleU := warpedU + 0.5
			sampleV := warpedV + 0.5

			c := sampleWrapped(src, sampleU, sampleV)
			for i := 0; i < 4; i++ {
				c[i] *= u.Decay
			}
			c = applyEffectFlags(c, flags)
			dst.Set(px, py, c)
		}
	}
}

// sampleMeshUV bilinearly interpolates the warped UV stored at mesh
// vertices for the quad containing normalized coordinate (nx, ny) in
// [0,1]^2.
func sampleMeshUV(mesh *Mesh, nx, ny float32) (float32, float32) {
	fx := nx * float32(mesh.Width-1)
	fy := ny * float32(mesh.Height-1)
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	x0 = clampInt(x0, 0, mesh.Width-2)
	y0 = clampInt(y0, 0, mesh.Height-2)
	x1, y1 := x0+1, y0+1

	tx := fx - float32(x0)
	ty := fy - float32(y0)

	v00 := mesh.at(x0, y0)
	v10 := mesh.at(x1, y0)
	v01 := mesh.at(x0, y1)
	v11 := mesh.at(x1, y1)

	u := lerp(lerp(v00.WarpedU, v10.WarpedU, tx), lerp(v01.WarpedU, v11.WarpedU, tx), ty)
	v := lerp(lerp(v00.WarpedV, v10.WarpedV, tx), lerp(v01.WarpedV, v11.WarpedV, tx), ty)
	return u, v
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runWaveformPass additively draws the waveform overlay (spec.md §4.3
// "Waveform pass"): a line or dot list whose vertex positions track the
// current PCM window, colored and positioned by wave WaveformParams.
func runWaveformPass(dst Texture, wave WaveformParams, samples []float32) {
	if len(samples) == 0 || wave.Scale == 0 {
		return
	}
	w, h := dst.Width(), dst.Height()
	n := len(samples)
	for i, s := range samples {
		nx := wave.X + (float32(i)/float32(maxInt(n-1, 1))-0.5)
		ny := wave.Y + s*wave.Scale
		px := int((nx + 0.5) * float32(w))
		py := int((ny + 0.5) * float32(h))
		if px < 0 || py < 0 || px >= w || py >= h {
			continue
		}
		existing := dst.At(px, py)
		blended := [4]float32{
			clamp01(existing[0] + wave.R*wave.A),
			clamp01(existing[1] + wave.G*wave.A),
			clamp01(existing[2] + wave.B*wave.A),
			clamp01(existing[3] + wave.A),
		}
		dst.Set(px, py, blended)

		if !wave.DotsNotLines && i > 0 {
			prevNX := wave.X + (float32(i-1)/float32(maxInt(n-1, 1))-0.5)
			prevNY := wave.Y + samples[i-1]*wave.Scale
			drawLine(dst, prevNX, prevNY, nx, ny, [4]float32{wave.R, wave.G, wave.B, wave.A})
		}
	}
}

func drawLine(dst Texture, x0, y0, x1, y1 float32, color [4]float32) {
	w, h := dst.Width(), dst.Height()
	steps := maxInt(int(float32(w)*absF(x1-x0)), int(float32(h)*absF(y1-y0)))
	if steps == 0 {
		steps = 1
	}
	for s := 0; s <= steps; s++ {
		t := float32(s) / float32(steps)
		nx := lerp(x0, x1, t)
		ny := lerp(y0, y1, t)
		px := int((nx + 0.5) * float32(w))
		py := int((ny + 0.5) * float32(h))
		if px < 0 || py < 0 || px >= w || py >= h {
			continue
		}
		existing := dst.At(px, py)
		dst.Set(px, py, [4]float32{
			clamp01(existing[0] + color[0]*color[3]),
			clamp01(existing[1] + color[1]*color[3]),
			clamp01(existing[2] + color[2]*color[3]),
			clamp01(existing[3] + color[3]),
		})
	}
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// runBlit copies src into dst, resampling via nearest-neighbor if
// dimensions differ (spec.md §4.3 "the pipeline... performs a
// format-matching blit").
func runBlit(src, dst Texture) {
	sw, sh := src.Width(), src.Height()
	dw, dh := dst.Width(), dst.Height()
	for dy := 0; dy < dh; dy++ {
		for dx := 0; dx < dw; dx++ {
			sx := dx * sw / dw
			sy := dy * sh / dh
			dst.Set(dx, dy, src.At(sx, sy))
		}
	}
}
