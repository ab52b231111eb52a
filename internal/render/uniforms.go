package render

import (
	"encoding/binary"
	"fmt"
	"math"
)

// UniformsSize is the exact byte size of the packed frame uniform record
// (spec.md §6).
const UniformsSize = 80

// Uniforms is the frame-uniform record read by the composite pass. Its
// wire layout is bit-exact little-endian per spec.md §6; Bytes/ParseUniforms
// round-trip that layout the same way the teacher hand-packs APU/PPU
// register values byte-by-byte rather than reaching for a binary-struct
// library (none appears in the retrieved corpus).
type Uniforms struct {
	ResolutionX, ResolutionY float32
	Time                     float32
	Decay                    float32
	Zoom                     float32
	Rot                      float32
	CX, CY                   float32
	DX, DY                   float32
	SX, SY                   float32
	Warp                     float32

	FlagBrighten uint32
	FlagDarken   uint32
	FlagSolarize uint32
	FlagInvert   uint32
}

// Bytes packs u into the exact 80-byte little-endian layout from spec.md §6.
func (u Uniforms) Bytes() [UniformsSize]byte {
	var out [UniformsSize]byte
	putF32(out[0:4], u.ResolutionX)
	putF32(out[4:8], u.ResolutionY)
	putF32(out[8:12], u.Time)
	putF32(out[12:16], u.Decay)
	putF32(out[16:20], u.Zoom)
	putF32(out[20:24], u.Rot)
	putF32(out[24:28], u.CX)
	putF32(out[28:32], u.CY)
	putF32(out[32:36], u.DX)
	putF32(out[36:40], u.DY)
	putF32(out[40:44], u.SX)
	putF32(out[44:48], u.SY)
	putF32(out[48:52], u.Warp)
	binary.LittleEndian.PutUint32(out[52:56], u.FlagBrighten)
	binary.LittleEndian.PutUint32(out[56:60], u.FlagDarken)
	binary.LittleEndian.PutUint32(out[60:64], u.FlagSolarize)
	binary.LittleEndian.PutUint32(out[64:68], u.FlagInvert)
	// [68:80] pad0/pad1/pad2 are left zero.
	return out
}

// ParseUniforms unpacks an 80-byte little-endian buffer into a Uniforms
// value.
func ParseUniforms(b []byte) (Uniforms, error) {
	if len(b) != UniformsSize {
		return Uniforms{}, fmt.Errorf("render: uniform buffer must be %d bytes, got %d", UniformsSize, len(b))
	}
	return Uniforms{
		ResolutionX:  getF32(b[0:4]),
		ResolutionY:  getF32(b[4:8]),
		Time:         getF32(b[8:12]),
		Decay:        getF32(b[12:16]),
		Zoom:         getF32(b[16:20]),
		Rot:          getF32(b[20:24]),
		CX:           getF32(b[24:28]),
		CY:           getF32(b[28:32]),
		DX:           getF32(b[32:36]),
		DY:           getF32(b[36:40]),
		SX:           getF32(b[40:44]),
		SY:           getF32(b[44:48]),
		Warp:         getF32(b[48:52]),
		FlagBrighten: binary.LittleEndian.Uint32(b[52:56]),
		FlagDarken:   binary.LittleEndian.Uint32(b[56:60]),
		FlagSolarize: binary.LittleEndian.Uint32(b[60:64]),
		FlagInvert:   binary.LittleEndian.Uint32(b[64:68]),
	}, nil
}

func putF32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

func getF32(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src))
}
