package spin

// Point - координаты на поверхности, ось Y направлена вниз
type Point struct {
	X, Y float64
}

// Wedge - закрашенный сектор. Углы в радианах, по часовой стрелке от оси X
type Wedge struct {
	Center    Point
	Radius    float64
	Start     float64
	End       float64
	Fill      string
	Stroke    string
	LineWidth float64
}

type Circle struct {
	Center    Point
	Radius    float64
	Fill      string // пустая строка - без заливки
	Stroke    string
	LineWidth float64
}

// Text - подпись с центром в At, повернутая на Rotation вокруг At
type Text struct {
	At       Point
	Value    string
	Color    string
	Rotation float64
	Scale    float64
	Bold     bool
}

// Surface - поверхность, на которой рисуется колесо.
// Ошибка любой операции прерывает прокрутку
type Surface interface {
	Clear() error
	Wedge(w Wedge) error
	Circle(c Circle) error
	Text(t Text) error
}

// FrameSink - необязательная часть поверхности, получает сигнал о конце кадра
type FrameSink interface {
	EndFrame() error
}
