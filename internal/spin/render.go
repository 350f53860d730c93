package spin

import (
	"math"
)

const (
	hubRadius      = 50
	ringWidth      = 10
	labelOffset    = 20
	needleHalfBase = 20
	needleBaseY    = 50
	needleTipY     = 70
	currentScale   = 1.5
)

// layout - неизменяемая раскладка колеса для одного движка
type layout struct {
	center Point
	size   float64
	labels []string
	full   []string
	colors []string
	button string
}

func newLayout[T comparable](cfg Config[T]) layout {
	l := layout{
		center: Point{X: cfg.CenterX, Y: cfg.CenterY},
		size:   cfg.Size,
		labels: make([]string, len(cfg.Segments)),
		full:   make([]string, len(cfg.Segments)),
		colors: make([]string, len(cfg.Segments)),
		button: cfg.ButtonText,
	}
	for i, s := range cfg.Segments {
		l.full[i] = cfg.DisplayText(s)
		l.labels[i] = truncateLabel(l.full[i], cfg.LabelMaxRunes)
		l.colors[i] = segmentColor(cfg.Colors, i)
	}
	return l
}

// segmentColor - цвет из списка, иначе циклически из палитры по умолчанию
func segmentColor(colors []string, i int) string {
	if i < len(colors) && colors[i] != "" {
		return colors[i]
	}
	return DefaultColors[i%len(DefaultColors)]
}

func truncateLabel(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// draw рисует кадр: сектора с подписями, центр с кнопкой, внешнее кольцо, стрелку
func (l *layout) draw(s Surface, angle float64, current int, started bool) error {
	if err := s.Clear(); err != nil {
		return err
	}

	n := len(l.labels)
	last := angle
	for i := 1; i <= n; i++ {
		next := fullTurn*(float64(i)/float64(n)) + angle
		if err := l.segment(s, i-1, last, next); err != nil {
			return err
		}
		last = next
	}

	err := s.Circle(Circle{
		Center:    l.center,
		Radius:    hubRadius,
		Fill:      "white",
		Stroke:    "black",
		LineWidth: ringWidth,
	})
	if err != nil {
		return err
	}
	err = s.Text(Text{
		At:    Point{X: l.center.X, Y: l.center.Y + 3},
		Value: l.button,
		Color: "black",
		Scale: 1,
		Bold:  true,
	})
	if err != nil {
		return err
	}
	err = s.Circle(Circle{
		Center:    l.center,
		Radius:    l.size,
		Stroke:    "white",
		LineWidth: ringWidth,
	})
	if err != nil {
		return err
	}

	return l.needle(s, current, started)
}

func (l *layout) segment(s Surface, i int, from, to float64) error {
	err := s.Wedge(Wedge{
		Center:    l.center,
		Radius:    l.size,
		Start:     from,
		End:       to,
		Fill:      l.colors[i],
		Stroke:    "white",
		LineWidth: 1,
	})
	if err != nil {
		return err
	}

	mid := (from + to) / 2
	r := l.size/2 + labelOffset
	return s.Text(Text{
		At:       Point{X: l.center.X + r*math.Cos(mid), Y: l.center.Y + r*math.Sin(mid)},
		Value:    l.labels[i],
		Color:    "black",
		Rotation: mid,
		Scale:    1,
		Bold:     true,
	})
}

// needle - треугольная стрелка над центром. Рисуется узким сектором с вершиной в острие
func (l *layout) needle(s Surface, current int, started bool) error {
	tip := Point{X: l.center.X, Y: l.center.Y - needleTipY}
	depth := float64(needleTipY - needleBaseY)
	err := s.Wedge(Wedge{
		Center:    tip,
		Radius:    math.Hypot(needleHalfBase, depth),
		Start:     math.Atan2(depth, needleHalfBase),
		End:       math.Atan2(depth, -needleHalfBase),
		Fill:      "black",
		Stroke:    "black",
		LineWidth: 1,
	})
	if err != nil {
		return err
	}

	if !started {
		return nil
	}
	return s.Text(Text{
		At:    Point{X: l.center.X + 10, Y: l.center.Y + l.size + 50},
		Value: l.full[current],
		Color: "white",
		Scale: currentScale,
		Bold:  true,
	})
}
