// compositor.go - Compositor for halidetraceviz
//
// Replaces the teacher's multi-source, 60Hz-ticker VideoCompositor
// (video_compositor.go) with a single-threaded, trace-clock-driven
// compositor over exactly three fixed layers: image (persistent Func
// values), anim (transient load/store highlight flashes, alpha-decayed
// once per frame) and text (Func-name labels, painted once per touching
// event and otherwise left untouched, matching the original tool's
// behaviour of freezing a label at its last brightness once its fade-in
// window ends). The teacher's "if alpha != 0, overwrite" shortcut can't
// express a fading highlight, so layers are combined here with real
// Porter-Duff source-over blending, in the style documented by the gg
// library's internal/blend package; the rest of the per-layer
// bookkeeping (RGBA8 byte buffers, a blend scratch buffer) keeps the
// teacher's shape.

package main

const bytesPerPixel = 4

// Highlight tints applied to the anim layer: stores warm, loads cool,
// per spec.md §4.5.
const (
	loadHighlight  uint32 = 0xff44ddff
	storeHighlight uint32 = 0xffffdd44
)

// Compositor owns the three render layers and the decay schedule applied
// to the anim layer's alpha once per emitted frame (spec.md §4.5).
type Compositor struct {
	width, height int
	decayFactor   float64

	image []byte // persistent: last value painted at each pixel
	anim  []byte // transient: highlight flash, alpha decays each frame
	text  []byte // persistent: glyph-rendered labels, frozen once drawn
	blend []byte // scratch buffer reused by Render

	glyphs *GlyphTable
}

// NewCompositor allocates a compositor for a width x height output frame.
// decayFactor must be > 1; the anim layer's alpha is divided by it after
// every emitted frame, per spec.md §4.5.
func NewCompositor(width, height int, decayFactor float64, glyphs *GlyphTable) *Compositor {
	n := width * height * bytesPerPixel
	return &Compositor{
		width:       width,
		height:      height,
		decayFactor: decayFactor,
		image:       make([]byte, n),
		anim:        make([]byte, n),
		text:        make([]byte, n),
		blend:       make([]byte, n),
		glyphs:      glyphs,
	}
}

func (c *Compositor) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// screenCoord maps a packet's multidimensional coordinate to the 2D
// output position for a Func, per spec.md §4.3: screen = (x,y) +
// sum_i coord[i] * zoom * (x_stride[i], y_stride[i]).
func screenCoord(cfg *FuncConfig, p *Packet, lane int) (int, int) {
	zoom := int(cfg.Zoom)
	if zoom < 1 {
		zoom = 1
	}
	sx, sy := int(cfg.X), int(cfg.Y)
	width := int(p.Width)
	dims := int(cfg.Dims)
	for d := 0; d < dims; d++ {
		coord := int(p.GetIntArg(d*width + lane))
		sx += zoom * int(cfg.XStride[d]) * coord
		sy += zoom * int(cfg.YStride[d]) * coord
	}
	return sx, sy
}

// intensity maps a value in [min, max] to a [0, 255] byte, clamping out
// of range values, per spec.md §4.3.
func intensity(value, min, max float64) uint8 {
	if max <= min {
		return 0
	}
	v := 255 * (value - min) / (max - min)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func (c *Compositor) setPixel(buf []byte, x, y int, r, g, b, a uint8) {
	if !c.inBounds(x, y) {
		return
	}
	off := (y*c.width + x) * bytesPerPixel
	buf[off], buf[off+1], buf[off+2], buf[off+3] = r, g, b, a
}

func (c *Compositor) getPixel(buf []byte, x, y int) (uint8, uint8, uint8, uint8) {
	if !c.inBounds(x, y) {
		return 0, 0, 0, 0
	}
	off := (y*c.width + x) * bytesPerPixel
	return buf[off], buf[off+1], buf[off+2], buf[off+3]
}

// PaintEvent handles a single load or store packet: it always flashes
// the anim layer, and updates the persistent image layer for stores and
// for loads of a pipeline input (a load whose parent is the pipeline
// itself rather than some intermediate producer), per spec.md §4.3.
func (c *Compositor) PaintEvent(cfg *FuncConfig, p *Packet, pipeline PipelineInfo, diag *diagnostics) {
	if int(p.NumIntArgs) < int(p.Width)*int(cfg.Dims) {
		diag.warnOnce("paintguard:"+cfg.Name,
			"Skipping Func %s: packet has %d int args, need at least %d for %d dims\n",
			cfg.Name, p.NumIntArgs, int(p.Width)*int(cfg.Dims), cfg.Dims)
		return
	}

	isStore := p.Event == eventStore
	updateImage := isStore || p.Parent == pipeline.ID
	highlight := loadHighlight
	if isStore {
		highlight = storeHighlight
	}
	ha, hr, hg, hb := uint8(highlight>>24), uint8(highlight>>16), uint8(highlight>>8), uint8(highlight)

	zoom := int(cfg.Zoom)
	if zoom < 1 {
		zoom = 1
	}

	for lane := 0; lane < int(p.Width); lane++ {
		sx, sy := screenCoord(cfg, p, lane)

		var r, g, b, a uint8
		if updateImage {
			value := p.GetValueAsF64(lane, diag)
			v := intensity(value, cfg.Min, cfg.Max)
			if cfg.ColorDim < 0 {
				r, g, b, a = v, v, v, 0xff
			} else {
				channel := int(p.GetIntArg(int(cfg.ColorDim)*int(p.Width) + lane))
				r, g, b, a = c.getPixel(c.image, sx, sy)
				switch channel {
				case 0:
					r = v
				case 1:
					g = v
				case 2:
					b = v
				}
				if isStore {
					a = 0xff
				}
			}
		}

		for dy := 0; dy < zoom; dy++ {
			for dx := 0; dx < zoom; dx++ {
				c.setPixel(c.anim, sx+dx, sy+dy, hr, hg, hb, ha)
				if updateImage {
					c.setPixel(c.image, sx+dx, sy+dy, r, g, b, a)
				}
			}
		}
	}
}

// PaintLabels draws every label configured for a Func directly into the
// text layer, once per qualifying load/store event (called with the
// clock value observed before any store-cost advance for this packet).
// A label is redrawn, brightening from near-black to full white, for as
// long as frames_since_first_draw <= label.N; once that window passes it
// is simply never redrawn again and stays frozen at its last brightness,
// matching the original tool's behaviour.
func (c *Compositor) PaintLabels(cfg *FuncConfig, stats *FuncStats, halideClock, timestep uint64) {
	if c.glyphs == nil || timestep == 0 {
		return
	}
	framesSinceFirstDraw := int64(halideClock-stats.FirstDrawTime) / int64(timestep)
	for _, l := range cfg.Labels {
		if l.N <= 0 || framesSinceFirstDraw > int64(l.N) {
			continue
		}
		level := ((1 + framesSinceFirstDraw) * 255) / int64(l.N)
		if level > 255 {
			level = 255
		}
		if level < 0 {
			level = 0
		}
		c.glyphs.DrawString(c.text, c.width, c.height, l.X, l.Y, l.Text, uint8(level))
	}
}

// BlankRealization clears a Func's image-layer footprint when a
// realization it configured to blank-on-end finishes, per spec.md §4.3.
// The blanked rectangle comes directly from the end-realization packet's
// own int args, read as (min, extent) pairs per dimension, exactly as
// the region the realization covered.
func (c *Compositor) BlankRealization(cfg *FuncConfig, p *Packet, diag *diagnostics) {
	if !cfg.BlankOnEnd {
		return
	}
	if int(p.NumIntArgs) < 2*int(cfg.Dims) {
		diag.warnOnce("blankguard:"+cfg.Name,
			"Skipping blank of Func %s: packet has %d int args, need at least %d for %d dims\n",
			cfg.Name, p.NumIntArgs, 2*int(cfg.Dims), cfg.Dims)
		return
	}
	zoom := int(cfg.Zoom)
	if zoom < 1 {
		zoom = 1
	}
	xMin, yMin := int(cfg.X), int(cfg.Y)
	xExtent, yExtent := 0, 0
	dims := int(cfg.Dims)
	for d := 0; d < dims; d++ {
		m := int(p.GetIntArg(d*2 + 0))
		e := int(p.GetIntArg(d*2 + 1))
		xMin += zoom * int(cfg.XStride[d]) * m
		yMin += zoom * int(cfg.YStride[d]) * m
		xExtent += zoom * int(cfg.XStride[d]) * e
		yExtent += zoom * int(cfg.YStride[d]) * e
	}
	if xExtent == 0 {
		xExtent = zoom
	}
	if yExtent == 0 {
		yExtent = zoom
	}
	for y := yMin; y < yMin+yExtent; y++ {
		for x := xMin; x < xMin+xExtent; x++ {
			c.setPixel(c.image, x, y, 0, 0, 0, 0)
		}
	}
}

// Decay fades the anim layer's alpha by the configured decay factor,
// per spec.md §4.5. The image and text layers are never decayed: they
// hold state that persists until explicitly overwritten or blanked.
func (c *Compositor) Decay() {
	for i := 3; i < len(c.anim); i += bytesPerPixel {
		c.anim[i] = uint8(float64(c.anim[i]) / c.decayFactor)
	}
}

// blendOver performs integer source-over compositing of src onto dst in
// place, forcing the result opaque, per spec.md §4.5's
// over(a,b) = (alpha_b*b_rgb + (256-alpha_b)*a_rgb) >> 8 and matching the
// original tool's composite() helper exactly (no floating point).
func blendOver(dst, src []byte) {
	for i := 0; i+3 < len(dst); i += bytesPerPixel {
		alpha := int(src[i+3])
		inv := 256 - alpha
		for ch := 0; ch < 3; ch++ {
			dst[i+ch] = uint8((alpha*int(src[i+ch]) + inv*int(dst[i+ch])) >> 8)
		}
		dst[i+3] = 0xff
	}
}

// Render composites image, anim and text (in that order) into the scratch
// buffer and returns it. The returned slice is reused by the next call
// and must be written out (or copied) before calling Render again.
func (c *Compositor) Render() []byte {
	copy(c.blend, c.image)
	blendOver(c.blend, c.anim)
	blendOver(c.blend, c.text)
	return c.blend
}
