package preset

import (
	"strings"
	"testing"
)

const minimalPreset = `[preset00]
zoom=1.0
rot=0.0
wave_r=0.5
per_frame_init_1=q1 = 0
per_frame_1=zoom = 1 + 0.01*sin(time)
per_frame_2=rot = rot + 0.001
per_pixel_1=zoom = zoom + 0.1*sin(rad*6.28)
wavecode_0_enabled=1
wavecode_0_r=1.0
wavecode_0_init_1=sample = 0
wavecode_0_per_frame1=sample = sample + 1
shapecode_0_enabled=1
shapecode_0_sides=4
shapecode_0_init_1=x = 0
shapecode_0_per_frame1=x = x + 1
warp_1=float4 ps_warp(...)
warp_2={ return tex2D(s, uv); }
totally_unknown_key=some free text
`

func TestParseBasicPreset(t *testing.T) {
	p, diags, err := Parse(minimalPreset)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// totally_unknown_key is the only line that should produce a diagnostic.
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic (the unrecognized key warning), got %v", diags)
	}
	if p.Parameters["zoom"] != 1.0 {
		t.Errorf("zoom = %v, want 1.0", p.Parameters["zoom"])
	}
	if len(p.PerFrame) != 2 {
		t.Fatalf("per_frame count = %d, want 2", len(p.PerFrame))
	}
	if len(p.PerFrameInit) != 1 {
		t.Errorf("per_frame_init count = %d, want 1", len(p.PerFrameInit))
	}
	if len(p.PerPixel) != 1 {
		t.Errorf("per_pixel count = %d, want 1", len(p.PerPixel))
	}
	if p.Waves[0] == nil || !p.Waves[0].Enabled {
		t.Fatal("wave 0 should be enabled")
	}
	if p.Waves[0].Parameters["r"] != 1.0 {
		t.Errorf("wave 0 r = %v, want 1.0", p.Waves[0].Parameters["r"])
	}
	if len(p.Waves[0].PerFrame) != 1 {
		t.Errorf("wave 0 per_frame count = %d, want 1", len(p.Waves[0].PerFrame))
	}
	if p.Shapes[0] == nil || !p.Shapes[0].Enabled {
		t.Fatal("shape 0 should be enabled")
	}
	if p.Shapes[0].Parameters["sides"] != 4 {
		t.Errorf("shape 0 sides = %v, want 4", p.Shapes[0].Parameters["sides"])
	}
	if !strings.Contains(p.WarpShader, "ps_warp") {
		t.Errorf("warp shader missing expected content: %q", p.WarpShader)
	}
	if _, ok := p.UnknownKeys["totally_unknown_key"]; !ok {
		t.Error("unknown key should be preserved")
	}
}

func TestOrderedPerFrameToleratesGaps(t *testing.T) {
	src := "[preset00]\nper_frame_5=a = 1\nper_frame_1=b = 2\nper_frame_100=c = 3\n"
	p, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ordered := p.OrderedPerFrame()
	if len(ordered) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(ordered))
	}
	if ordered[0].Index != 1 || ordered[1].Index != 5 || ordered[2].Index != 100 {
		t.Errorf("statements not in ascending index order: %+v", ordered)
	}
}

func TestUnrecognizedKeyBecomesWarningDiagnostic(t *testing.T) {
	src := "[preset00]\nsome_made_up_text_field=hello there\n"
	_, diags, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
}

func TestOversizedLineRejected(t *testing.T) {
	huge := strings.Repeat("a", MaxLineSize+1)
	src := "[preset00]\nper_frame_1=" + huge + "\n"
	_, _, err := Parse(src)
	if err == nil {
		t.Fatal("expected an error for an oversized line")
	}
}

func TestOversizedFileRejected(t *testing.T) {
	huge := strings.Repeat("a", MaxFileSize+1)
	_, _, err := Parse(huge)
	if err == nil {
		t.Fatal("expected an error for an oversized file")
	}
}

func TestRoundTripSerialize(t *testing.T) {
	p, _, err := Parse(minimalPreset)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	serialized := p.Serialize()
	p2, _, err := Parse(serialized)
	if err != nil {
		t.Fatalf("re-parse of serialized preset failed: %v", err)
	}
	if p2.Parameters["zoom"] != p.Parameters["zoom"] {
		t.Errorf("zoom did not round-trip: got %v, want %v", p2.Parameters["zoom"], p.Parameters["zoom"])
	}
	if len(p2.PerFrame) != len(p.PerFrame) {
		t.Errorf("per_frame count did not round-trip: got %d, want %d", len(p2.PerFrame), len(p.PerFrame))
	}
	if _, ok := p2.UnknownKeys["totally_unknown_key"]; !ok {
		t.Error("unknown key did not round-trip")
	}
}

func TestWhitespaceAroundEqualsStripped(t *testing.T) {
	src := "[preset00]\n  zoom  =  2.0  \n"
	p, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Parameters["zoom"] != 2.0 {
		t.Errorf("zoom = %v, want 2.0", p.Parameters["zoom"])
	}
}
