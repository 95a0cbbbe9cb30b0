package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rect is a placement on the canvas: XY is the centre and WH the full size,
// in centred, y-up pixels.
type Rect struct {
	XY mgl32.Vec2
	WH mgl32.Vec2
}

func RectFromXYWH(x, y, w, h float32) Rect {
	return Rect{XY: mgl32.Vec2{x, y}, WH: mgl32.Vec2{w, h}}
}

// Pad shrinks r by amount on every side.
func (r Rect) Pad(amount float32) Rect {
	w := max(r.WH.X()-2*amount, 0)
	h := max(r.WH.Y()-2*amount, 0)
	return Rect{XY: r.XY, WH: mgl32.Vec2{w, h}}
}

// DivideRows splits r into count rows of equal height, top row first.
func (r Rect) DivideRows(count int) []Rect {
	if count <= 0 {
		return nil
	}
	h := r.WH.Y() / float32(count)
	top := r.XY.Y() + r.WH.Y()/2
	out := make([]Rect, count)
	for i := range out {
		out[i] = Rect{
			XY: mgl32.Vec2{r.XY.X(), top - h*float32(i) - h/2},
			WH: mgl32.Vec2{r.WH.X(), h},
		}
	}
	return out
}

// DivideColumns splits r into count columns of equal width, left first.
func (r Rect) DivideColumns(count int) []Rect {
	if count <= 0 {
		return nil
	}
	w := r.WH.X() / float32(count)
	left := r.XY.X() - r.WH.X()/2
	out := make([]Rect, count)
	for i := range out {
		out[i] = Rect{
			XY: mgl32.Vec2{left + w*float32(i) + w/2, r.XY.Y()},
			WH: mgl32.Vec2{w, r.WH.Y()},
		}
	}
	return out
}

// DivideRowsColumns returns the cells of a rows x columns grid, row-major.
func (r Rect) DivideRowsColumns(rows, columns int) [][]Rect {
	var out [][]Rect
	for _, row := range r.DivideRows(rows) {
		out = append(out, row.DivideColumns(columns))
	}
	return out
}

// Grid lays n square placements over bounds on the smallest near-square
// grid that holds them, filling rows top to bottom.
func Grid(bounds Rect, n int) []Rect {
	if n <= 0 {
		return nil
	}
	columns := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + columns - 1) / columns

	out := make([]Rect, 0, n)
	for _, row := range bounds.DivideRowsColumns(rows, columns) {
		for _, cell := range row {
			if len(out) == n {
				return out
			}
			side := min(cell.WH.X(), cell.WH.Y())
			out = append(out, Rect{XY: cell.XY, WH: mgl32.Vec2{side, side}})
		}
	}
	return out
}
