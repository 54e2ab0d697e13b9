package rootfind

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Point is a sample of an expression. If OK is false, the expression has no
// real value at X and Y is NaN.
type Point struct {
	X, Y float64
	OK   bool
}

// ErrInvalidRange is returned by Sample when its range or count is unusable.
var ErrInvalidRange = errors.New("invalid sample range")

// Sample evaluates an expression at count evenly spaced values of its
// independent variable from xMin to xMax inclusive. Points where the
// expression is undefined are flagged rather than omitted so that callers can
// break a drawn curve there. Other evaluation errors, such as a missing
// variable, stop sampling.
func Sample(e *Expr, xMin, xMax float64, count int) ([]Point, error) {
	return SampleContext(e, nil, xMin, xMax, count)
}

// SampleContext is like Sample, but takes variables other than the
// independent variable from ctx.
func SampleContext(e *Expr, ctx *Context, xMin, xMax float64, count int) ([]Point, error) {
	if count < 2 || !finite(xMin) || !finite(xMax) || xMin >= xMax {
		return nil, ErrInvalidRange
	}
	xs := floats.Span(make([]float64, count), xMin, xMax)
	pts := make([]Point, count)
	for i, x := range xs {
		y, err := e.AtContext(ctx, x)
		switch {
		case err == nil:
			pts[i] = Point{X: x, Y: y, OK: true}
		case errors.Is(err, ErrUndefined) && !isNameError(err):
			pts[i] = Point{X: x, Y: math.NaN()}
		default:
			return nil, err
		}
	}
	return pts, nil
}

// Segments splits samples into runs of consecutive defined points.
func Segments(pts []Point) [][]Point {
	var r [][]Point
	start := -1
	for i, p := range pts {
		switch {
		case p.OK && start < 0:
			start = i
		case !p.OK && start >= 0:
			r = append(r, pts[start:i])
			start = -1
		}
	}
	if start >= 0 {
		r = append(r, pts[start:])
	}
	return r
}

func isNameError(err error) bool {
	var ne *NameError
	return errors.As(err, &ne)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
