package render

import (
	"math"

	m "github.com/gonutz/d3dmath/column_major/d3dmath"
)

// EffectFlags mirrors the preset-requested post-process flags packed into
// Uniforms (spec.md §4.3 step 8).
type EffectFlags struct {
	Brighten, Darken, Solarize, Invert bool
}

func meshVec2(u, v float32) m.Vec2 { return m.Vec2{u, v} }

// rotation2D builds the column-major 2x2 rotation matrix R(rot) from
// spec.md §4.3 step 1, using d3dmath's Mat2 layout (gonutz-go_demo_game's
// vendored column-major vector/matrix package; d3dmath itself only ships
// 3D axis rotations, so the 2x2 case is constructed directly from its
// column-major convention: column 0 = (cos, sin), column 1 = (-sin, cos)).
func rotation2D(rot float32) m.Mat2 {
	s, c := math.Sincos(float64(rot))
	return m.Mat2{float32(c), float32(s), float32(-s), float32(c)}
}

// transformUV applies spec.md §4.3 steps 1-5 to a centered UV coordinate
// (uv in [-0.5, 0.5]^2), returning the transformed UV still centered at the
// origin (re-offset to [0,1] happens at the sampling call site).
func transformUV(uv m.Vec2, u Uniforms) m.Vec2 {
	rotated := uv.MulMat(rotation2D(u.Rot))

	zoom := u.Zoom
	if zoom == 0 {
		zoom = 1
	}
	scaled := m.Vec2{rotated[0] / zoom, rotated[1] / zoom}

	stretched := m.Vec2{scaled[0] * u.SX, scaled[1] * u.SY}

	translated := m.Vec2{
		stretched[0] + u.DX - (u.CX - 0.5),
		stretched[1] + u.DY - (u.CY - 0.5),
	}

	if u.Warp != 0 {
		radius := float32(math.Sqrt(float64(translated[0]*translated[0] + translated[1]*translated[1])))
		factor := 1 + 0.1*u.Warp*float32(math.Sin(float64(radius*10+u.Time)))
		translated = m.Vec2{translated[0] * factor, translated[1] * factor}
	}

	return translated
}

// sampleWrapped samples tex at a UV coordinate in [0,1]^2, wrapping
// out-of-range coordinates with a fractional wraparound rather than
// clamping to black (spec.md §4.3: "default policy is to sample the
// wrapped coordinate so that motion does not introduce sharp black
// borders").
func sampleWrapped(tex Texture, u, v float32) [4]float32 {
	u = wrapFract(u)
	v = wrapFract(v)
	x := int(u * float32(tex.Width()))
	y := int(v * float32(tex.Height()))
	if x >= tex.Width() {
		x = tex.Width() - 1
	}
	if y >= tex.Height() {
		y = tex.Height() - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return tex.At(x, y)
}

func wrapFract(v float32) float32 {
	f := v - float32(math.Floor(float64(v)))
	if f < 0 {
		f += 1
	}
	return f
}

// applyEffectFlags applies the brighten/darken/solarize/invert
// post-process flags to a single already-decayed pixel (spec.md §4.3 step
// 8).
func applyEffectFlags(c [4]float32, flags EffectFlags) [4]float32 {
	if flags.Brighten {
		for i := 0; i < 3; i++ {
			c[i] = clamp01(c[i] * 1.2)
		}
	}
	if flags.Darken {
		for i := 0; i < 3; i++ {
			c[i] = clamp01(c[i] * 0.8)
		}
	}
	if flags.Solarize {
		for i := 0; i < 3; i++ {
			if c[i] > 0.5 {
				c[i] = 1 - c[i]
			}
		}
	}
	if flags.Invert {
		for i := 0; i < 3; i++ {
			c[i] = 1 - c[i]
		}
	}
	return c
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
