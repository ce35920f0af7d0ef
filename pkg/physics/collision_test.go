// pkg/physics/collision_test.go
package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircle_Collides(t *testing.T) {
	tests := []struct {
		name     string
		circle1  Circle
		circle2  Circle
		expected bool
	}{
		{
			name:     "circles_touching",
			circle1:  Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			circle2:  Circle{Center: Vector2D{X: 10, Y: 0}, Radius: 5},
			expected: false,
		},
		{
			name:     "circles_overlapping",
			circle1:  Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			circle2:  Circle{Center: Vector2D{X: 5, Y: 0}, Radius: 5},
			expected: true,
		},
		{
			name:     "circles_apart",
			circle1:  Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			circle2:  Circle{Center: Vector2D{X: 15, Y: 0}, Radius: 5},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.circle1.Collides(tt.circle2))
		})
	}
}

func TestCircle_Contains(t *testing.T) {
	c := Circle{Center: Vector2D{X: 1, Y: 1}, Radius: 2}

	assert.True(t, c.Contains(Vector2D{X: 3, Y: 1}))
	assert.False(t, c.Contains(Vector2D{X: 3.1, Y: 1}))
}

func TestQuadTree_Query(t *testing.T) {
	qt := NewQuadTree[string](Rect{Width: 100, Height: 100}, 2)

	qt.Insert(Vector2D{X: -10, Y: -10}, "a")
	qt.Insert(Vector2D{X: 10, Y: 10}, "b")
	qt.Insert(Vector2D{X: 12, Y: 12}, "c")
	qt.Insert(Vector2D{X: 40, Y: -40}, "d")

	found := qt.Query(Rect{Center: Vector2D{X: 11, Y: 11}, Width: 6, Height: 6})

	assert.ElementsMatch(t, []string{"b", "c"}, found)
}

func TestQuadTree_KeepsPointsOutsideBoundary(t *testing.T) {
	qt := NewQuadTree[int](Rect{Width: 10, Height: 10}, 1)

	assert.True(t, qt.Insert(Vector2D{X: 1000, Y: 1000}, 1))
	qt.Insert(Vector2D{X: 1, Y: 1}, 2)

	assert.Equal(t, []int{1}, qt.QueryCircle(Circle{Center: Vector2D{X: 1000, Y: 1000}, Radius: 1}))
}

func TestQuadTree_QueryCircle(t *testing.T) {
	qt := NewQuadTree[int](Rect{Width: 1000, Height: 1000}, 4)
	for i := 0; i < 50; i++ {
		qt.Insert(Vector2D{X: float64(i * 10), Y: 0}, i)
	}

	found := qt.QueryCircle(Circle{Center: Vector2D{X: 100, Y: 0}, Radius: 25})

	assert.ElementsMatch(t, []int{8, 9, 10, 11, 12}, found)
}

func TestQuadTree_ManyIdenticalPoints(t *testing.T) {
	qt := NewQuadTree[int](Rect{Width: 100, Height: 100}, 1)
	for i := 0; i < 100; i++ {
		qt.Insert(Vector2D{X: 5, Y: 5}, i)
	}

	assert.Len(t, qt.QueryCircle(Circle{Center: Vector2D{X: 5, Y: 5}, Radius: 1}), 100)
}
