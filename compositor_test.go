package main

import (
	"bytes"
	"testing"
)

func newTestPacket(event uint8, width, numIntArgs uint8, valueBits uint8, parent uint32) *Packet {
	p := &Packet{Event: event, Type: typeUint, Bits: valueBits, Width: width, Parent: parent, NumIntArgs: numIntArgs}
	return p
}

func TestIntensityClampsToRange(t *testing.T) {
	cases := []struct {
		value, min, max float64
		want            uint8
	}{
		{0, 0, 255, 0},
		{255, 0, 255, 255},
		{-10, 0, 255, 0},
		{1000, 0, 255, 255},
		{127, 0, 255, 127},
		{5, 5, 5, 0}, // degenerate range
	}
	for _, c := range cases {
		if got := intensity(c.value, c.min, c.max); got != c.want {
			t.Errorf("intensity(%v, %v, %v) = %d, want %d", c.value, c.min, c.max, got, c.want)
		}
	}
}

func TestPaintEventGrayscaleStoreUpdatesImageAndAnim(t *testing.T) {
	cfg := &FuncConfig{Min: 0, Max: 255, ColorDim: -1, Zoom: 1, Dims: 0}
	comp := NewCompositor(4, 4, 2, nil)
	diag := newDiagnostics(&bytes.Buffer{})

	p := newTestPacket(eventStore, 1, 0, 8, 0)
	p.payload[0] = 200 // lane 0 value byte

	comp.PaintEvent(cfg, p, PipelineInfo{}, diag)

	r, g, b, a := comp.getPixel(comp.image, 0, 0)
	if r != 200 || g != 200 || b != 200 || a != 0xff {
		t.Errorf("image pixel = (%d,%d,%d,%d), want (200,200,200,255)", r, g, b, a)
	}
	_, _, _, aa := comp.getPixel(comp.anim, 0, 0)
	if aa == 0 {
		t.Error("expected the anim layer to receive a highlight flash")
	}
}

func TestPaintEventLoadDoesNotTouchImageUnlessPipelineInput(t *testing.T) {
	cfg := &FuncConfig{Min: 0, Max: 255, ColorDim: -1, Zoom: 1, Dims: 0}
	comp := NewCompositor(4, 4, 2, nil)
	diag := newDiagnostics(&bytes.Buffer{})

	p := newTestPacket(eventLoad, 1, 0, 8, 55)
	comp.PaintEvent(cfg, p, PipelineInfo{ID: 1}, diag) // parent(55) != pipeline.ID(1)

	_, _, _, a := comp.getPixel(comp.image, 0, 0)
	if a != 0 {
		t.Error("expected a non-pipeline-input load to leave the image layer untouched")
	}
	_, _, _, aa := comp.getPixel(comp.anim, 0, 0)
	if aa == 0 {
		t.Error("expected the anim layer to still flash for a load")
	}
}

func TestPaintEventPipelineInputLoadUpdatesImage(t *testing.T) {
	cfg := &FuncConfig{Min: 0, Max: 255, ColorDim: -1, Zoom: 1, Dims: 0}
	comp := NewCompositor(4, 4, 2, nil)
	diag := newDiagnostics(&bytes.Buffer{})

	p := newTestPacket(eventLoad, 1, 0, 8, 1)
	comp.PaintEvent(cfg, p, PipelineInfo{ID: 1}, diag) // parent(1) == pipeline.ID(1)

	_, _, _, a := comp.getPixel(comp.image, 0, 0)
	if a != 0xff {
		t.Error("expected a pipeline-input load to update the image layer")
	}
}

func TestDecayDividesAnimAlphaOnly(t *testing.T) {
	comp := NewCompositor(2, 1, 2, nil)
	comp.setPixel(comp.anim, 0, 0, 10, 20, 30, 200)
	comp.Decay()
	r, g, b, a := comp.getPixel(comp.anim, 0, 0)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("decay must not touch RGB, got (%d,%d,%d)", r, g, b)
	}
	if a != 100 {
		t.Errorf("alpha after decay = %d, want 100 (200/2)", a)
	}
}

func TestBlendOverForcesOpaqueOutput(t *testing.T) {
	dst := []byte{10, 10, 10, 255}
	src := []byte{200, 0, 0, 128}
	blendOver(dst, src)
	if dst[3] != 0xff {
		t.Errorf("dst alpha = %d, want 255", dst[3])
	}
	if dst[0] <= 10 {
		t.Errorf("expected red channel to move toward src, got %d", dst[0])
	}
}

func TestRenderLayersImageThenAnimThenText(t *testing.T) {
	comp := NewCompositor(1, 1, 2, nil)
	comp.setPixel(comp.image, 0, 0, 10, 10, 10, 255)
	comp.setPixel(comp.anim, 0, 0, 0, 0, 0, 0) // transparent, should not affect output
	comp.setPixel(comp.text, 0, 0, 255, 255, 255, 255)

	// Full-alpha text still leaves a 1/256 weight on the layer below:
	// (255*255 + 1*10) >> 8 = 254.
	frame := comp.Render()
	if frame[0] != 254 {
		t.Errorf("expected the opaque text layer to win over image (r=254), got r=%d", frame[0])
	}
}

func TestBlankRealizationClearsConfiguredRegion(t *testing.T) {
	cfg := &FuncConfig{BlankOnEnd: true, Zoom: 1, Dims: 1, X: 0, Y: 0}
	cfg.XStride[0], cfg.YStride[0] = 1, 0
	comp := NewCompositor(4, 4, 2, nil)
	for x := 0; x < 4; x++ {
		comp.setPixel(comp.image, x, 0, 9, 9, 9, 9)
	}

	p := &Packet{NumIntArgs: 2, Bits: 8, Type: typeUint, Width: 1}
	// min=0, extent=3 for dim 0
	p.payload[0] = 0 // value byte (width=1, bits=8 -> 1 byte) then int args follow
	// int arg 0 (min) at offset valueBytes=1
	p.payload[1], p.payload[2], p.payload[3], p.payload[4] = 0, 0, 0, 0
	p.payload[5], p.payload[6], p.payload[7], p.payload[8] = 3, 0, 0, 0

	comp.BlankRealization(cfg, p, newDiagnostics(&bytes.Buffer{}))

	for x := 0; x < 3; x++ {
		if _, _, _, a := comp.getPixel(comp.image, x, 0); a != 0 {
			t.Errorf("pixel x=%d not blanked", x)
		}
	}
	if _, _, _, a := comp.getPixel(comp.image, 3, 0); a != 9 {
		t.Error("pixel outside the blanked extent should be untouched")
	}
}

func TestBlankRealizationNoOpWhenNotConfigured(t *testing.T) {
	cfg := &FuncConfig{BlankOnEnd: false}
	comp := NewCompositor(2, 2, 2, nil)
	comp.setPixel(comp.image, 0, 0, 1, 2, 3, 4)
	comp.BlankRealization(cfg, &Packet{}, newDiagnostics(&bytes.Buffer{}))
	if r, g, b, a := comp.getPixel(comp.image, 0, 0); r != 1 || g != 2 || b != 3 || a != 4 {
		t.Error("expected no change when BlankOnEnd is false")
	}
}

func TestBlankRealizationGuardsShortIntArgs(t *testing.T) {
	cfg := &FuncConfig{BlankOnEnd: true, Zoom: 1, Dims: 2, X: 0, Y: 0} // needs 2*dims=4 int args
	cfg.XStride[0], cfg.YStride[0] = 1, 0
	comp := NewCompositor(2, 2, 2, nil)
	comp.setPixel(comp.image, 0, 0, 1, 2, 3, 4)

	p := &Packet{NumIntArgs: 2, Bits: 8, Type: typeUint, Width: 1} // only 2, not 4
	comp.BlankRealization(cfg, p, newDiagnostics(&bytes.Buffer{}))

	if r, g, b, a := comp.getPixel(comp.image, 0, 0); r != 1 || g != 2 || b != 3 || a != 4 {
		t.Error("expected the under-provisioned packet to be skipped entirely")
	}
}

func TestPaintEventGuardsShortIntArgs(t *testing.T) {
	cfg := &FuncConfig{Min: 0, Max: 255, ColorDim: -1, Zoom: 1, Dims: 2} // needs width*dims=2 int args
	comp := NewCompositor(4, 4, 2, nil)
	diag := newDiagnostics(&bytes.Buffer{})

	p := newTestPacket(eventStore, 1, 0, 8, 0) // 0 int args, not 2
	comp.PaintEvent(cfg, p, PipelineInfo{}, diag)

	if _, _, _, a := comp.getPixel(comp.anim, 0, 0); a != 0 {
		t.Error("expected an under-provisioned packet to skip the paint loop entirely")
	}
}
