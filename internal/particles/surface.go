package particles

// Surface is a drawing target sized in its own units (pixels for the
// browser canvas, cells for a terminal).
type Surface interface {
	Size() (width, height float64)
	Resize(width, height float64)
	Clear()
	FillCircle(x, y, radius float64)
}

// Circle is one filled circle in a recorded frame.
type Circle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Recorder is a Surface that keeps the last frame as a display list.
// Remote renderers replay it.
type Recorder struct {
	width, height float64
	circles       []Circle
}

// NewRecorder creates a recorder of the given size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (float64, float64) { return r.width, r.height }

func (r *Recorder) Resize(width, height float64) {
	r.width, r.height = width, height
}

func (r *Recorder) Clear() { r.circles = r.circles[:0] }

func (r *Recorder) FillCircle(x, y, radius float64) {
	r.circles = append(r.circles, Circle{X: x, Y: y, R: radius})
}

// Circles returns a copy of the last recorded frame.
func (r *Recorder) Circles() []Circle {
	return append([]Circle(nil), r.circles...)
}
