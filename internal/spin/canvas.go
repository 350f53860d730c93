package spin

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
)

// Canvas - растровая поверхность на fogleman/gg
type Canvas struct {
	dc         *gg.Context
	background string
	faces      map[float64]font.Face
	fontPath   string
	fontPoints float64
}

type CanvasOption func(*Canvas) error

// WithBackground задает цвет заливки при Clear. По умолчанию кадр прозрачный
func WithBackground(c string) CanvasOption {
	return func(cv *Canvas) error {
		if _, err := parseColor(c); err != nil {
			return err
		}
		cv.background = c
		return nil
	}
}

// WithFont загружает TrueType шрифт. Без него используется встроенный растровый шрифт gg
func WithFont(path string, points float64) CanvasOption {
	return func(cv *Canvas) error {
		cv.fontPath = path
		cv.fontPoints = points
		_, err := cv.face(1)
		return err
	}
}

func NewCanvas(width, height int, opts ...CanvasOption) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidConfiguration, width, height)
	}
	cv := &Canvas{
		dc:    gg.NewContext(width, height),
		faces: make(map[float64]font.Face),
	}
	for _, opt := range opts {
		if err := opt(cv); err != nil {
			return nil, err
		}
	}
	return cv, nil
}

func (cv *Canvas) Clear() error {
	if cv.background == "" {
		cv.dc.SetColor(color.Transparent)
		cv.dc.Clear()
		return nil
	}
	c, err := parseColor(cv.background)
	if err != nil {
		return err
	}
	cv.dc.SetColor(c)
	cv.dc.Clear()
	return nil
}

func (cv *Canvas) Wedge(w Wedge) error {
	fill, err := parseColor(w.Fill)
	if err != nil {
		return err
	}

	cv.dc.NewSubPath()
	cv.dc.MoveTo(w.Center.X, w.Center.Y)
	cv.dc.DrawArc(w.Center.X, w.Center.Y, w.Radius, w.Start, w.End)
	cv.dc.LineTo(w.Center.X, w.Center.Y)
	cv.dc.ClosePath()
	cv.dc.SetColor(fill)
	cv.dc.FillPreserve()

	return cv.stroke(w.Stroke, w.LineWidth)
}

func (cv *Canvas) Circle(c Circle) error {
	cv.dc.NewSubPath()
	cv.dc.DrawCircle(c.Center.X, c.Center.Y, c.Radius)
	if c.Fill != "" {
		fill, err := parseColor(c.Fill)
		if err != nil {
			return err
		}
		cv.dc.SetColor(fill)
		cv.dc.FillPreserve()
	}
	return cv.stroke(c.Stroke, c.LineWidth)
}

func (cv *Canvas) Text(t Text) error {
	c, err := parseColor(t.Color)
	if err != nil {
		return err
	}
	scale := t.Scale
	if scale <= 0 {
		scale = 1
	}
	face, err := cv.face(scale)
	if err != nil {
		return err
	}

	cv.dc.Push()
	defer cv.dc.Pop()
	if face != nil {
		cv.dc.SetFontFace(face)
	}
	cv.dc.SetColor(c)
	if t.Rotation != 0 {
		cv.dc.RotateAbout(t.Rotation, t.At.X, t.At.Y)
	}
	cv.dc.DrawStringAnchored(t.Value, t.At.X, t.At.Y, 0.5, 0.5)
	return nil
}

func (cv *Canvas) Image() image.Image {
	return cv.dc.Image()
}

func (cv *Canvas) EncodePNG(w io.Writer) error {
	return cv.dc.EncodePNG(w)
}

func (cv *Canvas) stroke(name string, width float64) error {
	if name == "" || width <= 0 {
		cv.dc.ClearPath()
		return nil
	}
	c, err := parseColor(name)
	if err != nil {
		cv.dc.ClearPath()
		return err
	}
	cv.dc.SetColor(c)
	cv.dc.SetLineWidth(width)
	cv.dc.Stroke()
	return nil
}

// face возвращает шрифт нужного масштаба, загружая его один раз
func (cv *Canvas) face(scale float64) (font.Face, error) {
	if cv.fontPath == "" {
		return nil, nil
	}
	if f, ok := cv.faces[scale]; ok {
		return f, nil
	}
	f, err := gg.LoadFontFace(cv.fontPath, cv.fontPoints*scale)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", cv.fontPath, err)
	}
	cv.faces[scale] = f
	return f, nil
}

// parseColor понимает CSS имена цветов и #rgb / #rrggbb / #rrggbbaa
func parseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(name, "#") {
		return parseHex(name[1:])
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if name == "transparent" {
		return color.Transparent, nil
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

func parseHex(h string) (color.Color, error) {
	var r, g, b, a uint8 = 0, 0, 0, 255
	var err error
	switch len(h) {
	case 3:
		_, err = fmt.Sscanf(h, "%1x%1x%1x", &r, &g, &b)
		r, g, b = r*17, g*17, b*17
	case 6:
		_, err = fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b)
	case 8:
		_, err = fmt.Sscanf(h, "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return nil, fmt.Errorf("unknown color #%s", h)
	}
	if err != nil {
		return nil, fmt.Errorf("unknown color #%s: %w", h, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
