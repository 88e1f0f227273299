// glyphs.go - Glyph Table for halidetraceviz
//
// Renders Label text (spec.md §4.3) onto the text layer. The teacher
// tree has no text-rendering code of its own; gogpu-gg's text package
// pulls in the wider golang.org/x/image font stack for glyph shaping, so
// the fixed 7x13 bitmap face from golang.org/x/image/font/basicfont is
// adopted here instead of hand-rolling a glyph bitmap table, matching
// the common small-CLI-tool idiom of font.Drawer over a basicfont.Face.

package main

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Native cell size of basicfont.Face7x13, and the target cell size
// labels are scaled to, matching the original tool's baked-in 12x32
// inconsolata glyph cell (spec.md §3/§4).
const (
	srcGlyphW = 7
	srcGlyphH = 13
	dstGlyphW = 12
	dstGlyphH = 32
)

// GlyphTable rasterizes ASCII label text using a fixed bitmap face.
type GlyphTable struct {
	face font.Face
}

// NewGlyphTable constructs a Glyph Table over the embedded 7x13 ASCII
// face; no font files are read from disk, keeping with spec.md §6's "no
// filesystem state" constraint.
func NewGlyphTable() *GlyphTable {
	return &GlyphTable{face: basicfont.Face7x13}
}

// DrawString rasterizes text at (x, y) (top-left origin) into dst, a
// width*height RGBA8 buffer, nearest-neighbor scaled from the face's
// native 7x13 cell up to the spec's 12x32 glyph cell. Every covered
// pixel gets R=G=B=brightness and alpha taken from the glyph's own
// raster coverage, mirroring the original tool's draw_text: brightness
// is the fading label color, while visibility comes from the font
// bitmap itself. Pixels outside the buffer are clipped silently.
func (g *GlyphTable) DrawString(dst []byte, width, height, x, y int, text string, brightness uint8) {
	if text == "" {
		return
	}

	advance := font.MeasureString(g.face, text).Ceil()
	metrics := g.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if advance <= 0 || lineHeight <= 0 {
		return
	}

	canvas := image.NewAlpha(image.Rect(0, 0, advance, lineHeight))
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Alpha{A: 0xff}),
		Face: g.face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	scaledW := advance * dstGlyphW / srcGlyphW
	scaledH := lineHeight * dstGlyphH / srcGlyphH
	if scaledW <= 0 || scaledH <= 0 {
		return
	}

	for ty := 0; ty < scaledH; ty++ {
		py := y + ty
		if py < 0 || py >= height {
			continue
		}
		sy := ty * lineHeight / scaledH
		for tx := 0; tx < scaledW; tx++ {
			px := x + tx
			if px < 0 || px >= width {
				continue
			}
			sx := tx * advance / scaledW
			a := canvas.AlphaAt(sx, sy).A
			if a == 0 {
				continue
			}
			off := (py*width + px) * bytesPerPixel
			dst[off], dst[off+1], dst[off+2], dst[off+3] = brightness, brightness, brightness, a
		}
	}
}
