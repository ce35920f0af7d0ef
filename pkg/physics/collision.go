// pkg/physics/collision.go
package physics

// Circle represents a circular proximity shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are overlapping
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Contains reports whether point lies within the circle
func (c Circle) Contains(point Vector2D) bool {
	return c.Center.Distance(point) <= c.Radius
}

// Bounds returns the axis-aligned square enclosing the circle
func (c Circle) Bounds() Rect {
	return Rect{Center: c.Center, Width: c.Radius * 2, Height: c.Radius * 2}
}

// Rect represents a rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Contains reports whether point lies within the rectangle
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

func (r Rect) intersects(other Rect) bool {
	return !(other.Center.X-other.Width/2 > r.Center.X+r.Width/2 ||
		other.Center.X+other.Width/2 < r.Center.X-r.Width/2 ||
		other.Center.Y-other.Height/2 > r.Center.Y+r.Height/2 ||
		other.Center.Y+other.Height/2 < r.Center.Y-r.Height/2)
}

// QuadTree partitions points for range queries. Points outside the root
// boundary are kept in an overflow list so nothing is ever lost.
type QuadTree[T any] struct {
	Boundary Rect
	Capacity int

	points   []Vector2D
	objects  []T
	divided  bool
	children [4]*QuadTree[T]
	overflow []quadEntry[T]
}

type quadEntry[T any] struct {
	point  Vector2D
	object T
}

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree[T any](boundary Rect, capacity int) *QuadTree[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree[T]{
		Boundary: boundary,
		Capacity: capacity,
		points:   make([]Vector2D, 0, capacity),
		objects:  make([]T, 0, capacity),
	}
}

// Insert adds object at point. It returns false only for points outside the
// boundary of a child node; the root accepts everything.
func (qt *QuadTree[T]) Insert(point Vector2D, object T) bool {
	if !qt.insert(point, object, 0) {
		qt.overflow = append(qt.overflow, quadEntry[T]{point: point, object: object})
	}
	return true
}

// maxDepth bounds subdivision when many points share a location.
const maxDepth = 12

func (qt *QuadTree[T]) insert(point Vector2D, object T, depth int) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	if (len(qt.points) < qt.Capacity && !qt.divided) || depth >= maxDepth {
		qt.points = append(qt.points, point)
		qt.objects = append(qt.objects, object)
		return true
	}

	if !qt.divided {
		qt.subdivide()
	}

	for _, child := range qt.children {
		if child.insert(point, object, depth+1) {
			return true
		}
	}
	return false
}

// subdivide splits the quadtree into four quadrants
func (qt *QuadTree[T]) subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	qt.children = [4]*QuadTree[T]{
		NewQuadTree[T](Rect{Center: Vector2D{X: x - w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity),
		NewQuadTree[T](Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity),
		NewQuadTree[T](Rect{Center: Vector2D{X: x - w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity),
		NewQuadTree[T](Rect{Center: Vector2D{X: x + w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity),
	}
	qt.divided = true
}

// Query returns all objects whose point lies inside area
func (qt *QuadTree[T]) Query(area Rect) []T {
	found := qt.query(area, nil)
	for _, entry := range qt.overflow {
		if area.Contains(entry.point) {
			found = append(found, entry.object)
		}
	}
	return found
}

func (qt *QuadTree[T]) query(area Rect, found []T) []T {
	if !qt.Boundary.intersects(area) {
		return found
	}

	for i, point := range qt.points {
		if area.Contains(point) {
			found = append(found, qt.objects[i])
		}
	}

	if !qt.divided {
		return found
	}

	for _, child := range qt.children {
		found = child.query(area, found)
	}
	return found
}

// QueryCircle returns all objects whose point lies within the circle
func (qt *QuadTree[T]) QueryCircle(circle Circle) []T {
	var found []T
	qt.walk(circle.Bounds(), func(point Vector2D, object T) {
		if circle.Contains(point) {
			found = append(found, object)
		}
	})
	return found
}

func (qt *QuadTree[T]) walk(area Rect, visit func(Vector2D, T)) {
	qt.walkNode(area, visit)
	for _, entry := range qt.overflow {
		if area.Contains(entry.point) {
			visit(entry.point, entry.object)
		}
	}
}

func (qt *QuadTree[T]) walkNode(area Rect, visit func(Vector2D, T)) {
	if !qt.Boundary.intersects(area) {
		return
	}
	for i, point := range qt.points {
		if area.Contains(point) {
			visit(point, qt.objects[i])
		}
	}
	if qt.divided {
		for _, child := range qt.children {
			child.walkNode(area, visit)
		}
	}
}
