package arc

import (
	"math"
	"testing"
)

const posTol = 0.001

func TestGenerateIJEndpointExact(t *testing.T) {
	start := Point{X: 10, Y: 0}
	end := Point{X: 0, Y: 10}

	var got []Point
	err := GenerateIJ(Params{Start: start, End: end, CW: true, I: -10, J: 0}, func(p Point) bool {
		got = append(got, p)
		return true
	})
	if err != nil {
		t.Fatalf("GenerateIJ: %v", err)
	}
	if len(got) < 31 {
		t.Fatalf("expected at least 31 segments, got %d", len(got))
	}
	last := got[len(got)-1]
	if math.Abs(last.X-end.X) > posTol || math.Abs(last.Y-end.Y) > posTol {
		t.Errorf("final endpoint = (%v,%v), want (%v,%v)", last.X, last.Y, end.X, end.Y)
	}
	for _, p := range got {
		rad2 := p.X*p.X + p.Y*p.Y
		if math.Abs(rad2-100) > 0.01 {
			t.Errorf("point (%v,%v) not on radius-10 circle: x^2+y^2=%v", p.X, p.Y, rad2)
		}
	}
}

func TestGenerateIJDegenerateRadius(t *testing.T) {
	err := GenerateIJ(Params{
		Start: Point{X: 0, Y: 0}, End: Point{X: 0.0001, Y: 0},
		CW: true, I: 0, J: 0,
	}, func(Point) bool { return true })
	if err != ErrDegenerateRadius {
		t.Fatalf("err = %v, want ErrDegenerateRadius", err)
	}
}

func TestGenerateIJFullCircle(t *testing.T) {
	start := Point{X: 10, Y: 0}
	end := Point{X: 10, Y: 0}

	var got []Point
	err := GenerateIJ(Params{Start: start, End: end, CW: false, I: -10, J: 0}, func(p Point) bool {
		got = append(got, p)
		return true
	})
	if err != nil {
		t.Fatalf("GenerateIJ: %v", err)
	}
	// Full circle: radius 10, circumference ~62.8mm, segment length 0.5mm.
	wantMin := int(math.Floor(2*math.Pi*10/SegmentLen)) - 1
	if len(got) < wantMin {
		t.Fatalf("expected roughly a full circle worth of segments (>=%d), got %d", wantMin, len(got))
	}
}

func TestGenerateRChordTooLong(t *testing.T) {
	err := GenerateR(Params{
		Start: Point{X: 0, Y: 0}, End: Point{X: 100, Y: 0},
		CW: true, R: 10, UseR: true,
	}, func(Point) bool { return true })
	if err != ErrChordTooLong {
		t.Fatalf("err = %v, want ErrChordTooLong", err)
	}
}

func TestGenerateRMatchesEquivalentIJ(t *testing.T) {
	start := Point{X: 10, Y: 0}
	end := Point{X: 0, Y: 10}

	var viaR []Point
	if err := GenerateR(Params{Start: start, End: end, CW: true, R: -10, UseR: true}, func(p Point) bool {
		viaR = append(viaR, p)
		return true
	}); err != nil {
		t.Fatalf("GenerateR: %v", err)
	}

	last := viaR[len(viaR)-1]
	if math.Abs(last.X-end.X) > posTol || math.Abs(last.Y-end.Y) > posTol {
		t.Errorf("final endpoint = (%v,%v), want (%v,%v)", last.X, last.Y, end.X, end.Y)
	}
	for _, p := range viaR {
		rad2 := p.X*p.X + p.Y*p.Y
		if math.Abs(rad2-100) > 0.01 {
			t.Errorf("point (%v,%v) not on radius-10 circle: x^2+y^2=%v", p.X, p.Y, rad2)
		}
	}
}

func TestGenerateStopsEarlyWhenEmitReturnsFalse(t *testing.T) {
	count := 0
	err := GenerateIJ(Params{
		Start: Point{X: 10, Y: 0}, End: Point{X: 0, Y: 10},
		CW: true, I: -10, J: 0,
	}, func(Point) bool {
		count++
		return count < 5
	})
	if err != nil {
		t.Fatalf("GenerateIJ: %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5 (stopped after 5th emit)", count)
	}
}
