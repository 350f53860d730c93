package spin

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"time"
)

// GIFRecorder - поверхность, которая копит кадры canvas в анимированный GIF.
// Сохраняется каждый every-й кадр и всегда последний
type GIFRecorder struct {
	*Canvas

	every  int
	delay  int
	frames int
	lastIn bool
	anim   gif.GIF
}

// NewGIFRecorder - delay это пауза между сохраненными кадрами
func NewGIFRecorder(c *Canvas, every int, delay time.Duration) *GIFRecorder {
	if every < 1 {
		every = 1
	}
	cs := int(delay / (10 * time.Millisecond))
	if cs < 1 {
		cs = 1
	}
	return &GIFRecorder{Canvas: c, every: every, delay: cs}
}

func (g *GIFRecorder) EndFrame() error {
	g.frames++
	g.lastIn = false
	if (g.frames-1)%g.every == 0 {
		g.push(g.snapshot())
	}
	return nil
}

// Frames - число сохраненных кадров
func (g *GIFRecorder) Frames() int {
	n := len(g.anim.Image)
	if g.frames > 0 && !g.lastIn {
		n++
	}
	return n
}

// Encode дописывает последний кадр, если он не был сохранен, и пишет GIF
func (g *GIFRecorder) Encode(w io.Writer) error {
	if g.frames > 0 && !g.lastIn {
		g.push(g.snapshot())
	}
	return gif.EncodeAll(w, &g.anim)
}

func (g *GIFRecorder) push(img *image.Paletted) {
	g.anim.Image = append(g.anim.Image, img)
	g.anim.Delay = append(g.anim.Delay, g.delay)
	g.lastIn = true
}

func (g *GIFRecorder) snapshot() *image.Paletted {
	src := g.Image()
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.Draw(dst, dst.Rect, src, src.Bounds().Min, draw.Src)
	return dst
}
