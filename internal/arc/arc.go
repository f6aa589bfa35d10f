// Package arc expands circular G-code moves (G02/G03) into short linear
// chord segments. It is grounded on original_source/src/arc.c — there is
// no Go analogue for this component anywhere in the example corpus, so the
// algorithm is ported idiom-for-idiom into Go rather than adapted from an
// existing Go file.
package arc

import (
	"errors"
	"math"
)

const (
	// RadiusMin is the minimum working radius below which an arc request
	// is rejected as degenerate (spec.md §4.4 default). GenerateIJ also
	// treats an arc whose end lies within RadiusMin of its start on both
	// axes as a full circle.
	RadiusMin = 0.001
	// SegmentLen is the target chord length per emitted segment, in mm.
	SegmentLen = 0.5
	// MaxSegments bounds the segment count for pathological inputs.
	MaxSegments = 10000
)

var (
	ErrDegenerateRadius = errors.New("arc: radius below minimum")
	ErrChordTooLong     = errors.New("arc: chord longer than diameter")
)

// Point is a cartesian waypoint in the XY plane.
type Point struct {
	X, Y float64
}

// Params describes one arc request. Exactly one of the I/J form or the R
// form is populated (UseR selects which).
type Params struct {
	Start, End Point
	CW         bool

	I, J float64

	R    float64
	UseR bool
}

// Emit is called once per generated segment endpoint, in travel order; the
// final call always carries the exact End point. Returning false stops
// generation early (used when the caller's queue is full).
type Emit func(Point) bool

// GenerateIJ expands an arc given a center offset (I, J) from Start.
func GenerateIJ(p Params, emit Emit) error {
	cx := p.Start.X + p.I
	cy := p.Start.Y + p.J

	rStart := math.Hypot(p.Start.X-cx, p.Start.Y-cy)
	rEnd := math.Hypot(p.End.X-cx, p.End.Y-cy)
	r := 0.5 * (rStart + rEnd)
	if r < RadiusMin {
		return ErrDegenerateRadius
	}

	thetaStart := math.Atan2(p.Start.Y-cy, p.Start.X-cx)
	thetaEnd := math.Atan2(p.End.Y-cy, p.End.X-cx)

	var dtheta float64
	if p.CW {
		dtheta = math.Mod(thetaStart-thetaEnd, 2*math.Pi)
	} else {
		dtheta = math.Mod(thetaEnd-thetaStart, 2*math.Pi)
	}
	if dtheta <= 0 {
		dtheta += 2 * math.Pi
	}

	dx := p.End.X - p.Start.X
	dy := p.End.Y - p.Start.Y
	if math.Abs(dx) < RadiusMin && math.Abs(dy) < RadiusMin {
		dtheta = 2 * math.Pi
	}

	arcLen := r * dtheta
	n := int(math.Floor(arcLen / SegmentLen))
	if n < 1 {
		n = 1
	}
	if n > MaxSegments {
		n = MaxSegments
	}

	step := dtheta / float64(n)
	if p.CW {
		step = -step
	}

	for k := 1; k <= n; k++ {
		var pt Point
		if k == n {
			pt = p.End
		} else {
			theta := thetaStart + step*float64(k)
			pt = Point{X: cx + r*math.Cos(theta), Y: cy + r*math.Sin(theta)}
		}
		if !emit(pt) {
			break
		}
	}
	return nil
}

// GenerateR expands an arc given a signed radius R; the sign and the CW
// flag together select which of the two circles through Start/End is used
// (spec.md §4.4's R-form side-selection rule), then delegates to GenerateIJ.
func GenerateR(p Params, emit Emit) error {
	dx := p.End.X - p.Start.X
	dy := p.End.Y - p.Start.Y
	chordLen := math.Hypot(dx, dy)
	halfChord := chordLen / 2
	absR := math.Abs(p.R)

	if halfChord > absR {
		return ErrChordTooLong
	}

	mx := (p.Start.X + p.End.X) / 2
	my := (p.Start.Y + p.End.Y) / 2
	h := math.Sqrt(absR*absR - halfChord*halfChord)

	var ux, uy float64
	if chordLen > 0 {
		ux, uy = dx/chordLen, dy/chordLen
	}
	px, py := -uy, ux // left-of-travel unit normal

	useLeft := !p.CW
	if p.R < 0 {
		useLeft = !useLeft
	}
	sign := -1.0
	if useLeft {
		sign = 1.0
	}

	cx := mx + sign*px*h
	cy := my + sign*py*h

	ij := p
	ij.I = cx - p.Start.X
	ij.J = cy - p.Start.Y
	ij.UseR = false
	return GenerateIJ(ij, emit)
}

// Generate dispatches to GenerateR or GenerateIJ based on p.UseR.
func Generate(p Params, emit Emit) error {
	if p.UseR {
		return GenerateR(p, emit)
	}
	return GenerateIJ(p, emit)
}
