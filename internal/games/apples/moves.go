package apples

import "github.com/vovakirdan/apple-arcade/internal/core"

// FindMove looks for a rectangle on g whose values sum to target.
// Rectangles are tried top-left first, smallest first, so the result is
// stable for a given grid.
func FindMove(g Grid, target int) (core.Rect, bool) {
	if target <= 0 {
		return core.Rect{}, false
	}

	// prefix[r][c] holds the sum of the rectangle (0,0)..(r-1,c-1).
	prefix := make([][]int, g.height+1)
	for r := range prefix {
		prefix[r] = make([]int, g.width+1)
	}
	for r := range g.height {
		for c := range g.width {
			prefix[r+1][c+1] = g.At(r, c) + prefix[r][c+1] + prefix[r+1][c] - prefix[r][c]
		}
	}

	sum := func(top, left, bottom, right int) int {
		return prefix[bottom+1][right+1] - prefix[top][right+1] - prefix[bottom+1][left] + prefix[top][left]
	}

	for top := range g.height {
		for left := range g.width {
			for bottom := top; bottom < g.height; bottom++ {
				for right := left; right < g.width; right++ {
					s := sum(top, left, bottom, right)
					if s == target {
						return core.Span(left, top, right, bottom), true
					}
					// Values are never negative, so widening only grows the sum
					if s > target {
						break
					}
				}
			}
		}
	}
	return core.Rect{}, false
}
