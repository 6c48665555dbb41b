package rules

// Body is the ordered list of snake segments, head first. It is a ring
// buffer so moving the snake never shifts or reallocates the segments.
type Body struct {
	points []Point
	head   int
	length int
}

func newBody(capacity int, head Point) *Body {
	if capacity < 1 {
		capacity = 1
	}
	b := &Body{points: make([]Point, capacity)}
	b.PushFront(head)
	return b
}

// Len returns the number of segments.
func (b *Body) Len() int { return b.length }

// Front returns the head segment.
func (b *Body) Front() Point {
	if b.length == 0 {
		panic("rules: empty body")
	}
	return b.points[b.head]
}

// Back returns the last tail segment.
func (b *Body) Back() Point {
	return b.At(b.length - 1)
}

// At returns the i-th segment counting from the head.
func (b *Body) At(i int) Point {
	if i < 0 || i >= b.length {
		panic("rules: body index out of range")
	}
	return b.points[(b.head+i)%len(b.points)]
}

// PushFront adds a new head segment.
func (b *Body) PushFront(p Point) {
	if b.length == len(b.points) {
		b.grow()
	}
	b.head = (b.head - 1 + len(b.points)) % len(b.points)
	b.points[b.head] = p
	b.length++
}

// PopBack removes and returns the last tail segment.
func (b *Body) PopBack() Point {
	p := b.Back()
	b.length--
	return p
}

// Points copies the segments out, head first.
func (b *Body) Points() []Point {
	out := make([]Point, b.length)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

func (b *Body) grow() {
	points := make([]Point, len(b.points)*2)
	for i := 0; i < b.length; i++ {
		points[i] = b.At(i)
	}
	b.points = points
	b.head = 0
}
