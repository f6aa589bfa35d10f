// Package gcode implements the word-level tokenizer (C2) and modal
// executor (C3) from spec.md §4.2-4.3. Grounded on
// standalone/gcode/{parser,interpreter}.go and original_source/src/gcode.c
// for exact dispatch ordering and status semantics.
package gcode

// Status mirrors the reference firmware's gcode_status_t exactly.
type Status int

const (
	StatusOK Status = iota
	StatusMissingParam
	StatusInvalidParam
	StatusUnknownCmd
	StatusUnsupportedCmd
	StatusInvalidTarget
	StatusOverflow
)

func (s Status) String() string {
	switch s {
	case StatusMissingParam:
		return "MissingParam"
	case StatusInvalidParam:
		return "InvalidParam"
	case StatusUnknownCmd:
		return "UnknownCmd"
	case StatusUnsupportedCmd:
		return "UnsupportedCmd"
	case StatusInvalidTarget:
		return "InvalidTarget"
	case StatusOverflow:
		return "Overflow"
	default:
		return "OK"
	}
}

// MotionMode is the executor's sticky motion mode.
type MotionMode int

const (
	MotionRapid MotionMode = iota
	MotionLinear
	MotionArcCW
	MotionArcCCW
	MotionDwell
)

// CoordMode is the sticky absolute/relative interpretation of X/Y words.
type CoordMode int

const (
	CoordAbsolute CoordMode = iota
	CoordRelative
)

// FeedMode is the sticky feed-rate interpretation.
type FeedMode int

const (
	FeedUnitsPerMinute FeedMode = iota
	FeedInverseTime
)

// SpindleState is the sticky spindle rotation state.
type SpindleState int

const (
	SpindleOff SpindleState = iota
	SpindleCW
	SpindleCCW
)

// Block is the parser's output: a structured representation of one line
// (spec.md §3 GCodeBlock). Optional words carry a presence flag.
type Block struct {
	X, Y, I, J, R, F, S, P                             float64
	HasX, HasY, HasI, HasJ, HasR, HasF, HasS, HasP bool

	G    int
	HasG bool
	M    int
	HasM bool
}

// State is the executor's persistent modal state (spec.md §3 ModalState).
type State struct {
	X, Y float64

	Motion  MotionMode
	Coord   CoordMode
	Feed    FeedMode
	Spindle SpindleState

	Feedrate        float64
	FeedrateSet     bool
	SpindleSpeed    float64
	ProgramComplete bool
}

// NewState returns the modal state immediately after init: position (0,0),
// feedrate 100.0 but not yet "set", absolute coordinates (spec.md §3).
func NewState() *State {
	return &State{
		Coord:    CoordAbsolute,
		Feedrate: 100.0,
	}
}
