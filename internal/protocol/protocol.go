// Package protocol assembles a byte stream from the host into normalized
// G-code lines and intercepts the four single-byte real-time commands.
// It is grounded on the teacher's standalone.Manager.ProcessByte loop and
// on original_source/src/protocol.c for the exact per-byte rules, with one
// deliberate correction: semicolon comments no longer mutate an outer loop
// index and so cannot swallow a real-time byte (spec.md §9).
package protocol

import "strings"

// Status tags a delivered line.
type Status int

const (
	StatusOK Status = iota
	StatusOverflow
)

func (s Status) String() string {
	if s == StatusOverflow {
		return "OVERFLOW"
	}
	return "OK"
}

// RealTimeEvent is one of the four bytes that pre-empt line assembly.
type RealTimeEvent int

const (
	EventReset RealTimeEvent = iota
	EventStatusQuery
	EventFeedHold
	EventCycleStart
)

// Line is a completed, normalized line ready for the G-code layer.
type Line struct {
	Text   string
	Status Status
}

// Config holds the Framer's compile-time-equivalent options (spec.md §3's
// line buffer size L and queue depth Q, plus the four behavior flags from
// §4.1).
type Config struct {
	LineMax                int
	QueueDepth              int
	AllowDollarCommands     bool
	StripParenComments      bool
	StripSemicolonComments  bool
	ToUppercase             bool
}

// DefaultConfig matches the reference firmware's compile-time defaults
// (original_source/src/grbl.h: GRBL_LINE_MAX=96, GRBL_LINE_QUEUE_DEPTH=8).
func DefaultConfig() Config {
	return Config{
		LineMax:                96,
		QueueDepth:             8,
		AllowDollarCommands:    true,
		StripParenComments:     true,
		StripSemicolonComments: true,
		ToUppercase:            true,
	}
}

// LineHandler receives each completed line synchronously.
type LineHandler func(Line)

// RealTimeHandler receives each real-time event synchronously.
type RealTimeHandler func(RealTimeEvent)

// Framer turns bytes into lines. It is not safe for concurrent use; the
// core is single-threaded cooperative (spec.md §5) and Feed is expected to
// be called from one execution context.
type Framer struct {
	cfg Config

	buf      []byte
	overflow bool

	inParenComment     bool
	inSemicolonComment bool

	onLine     LineHandler
	onRealTime RealTimeHandler

	queue []Line // bounded ring buffer, used only when onLine is nil
	head  int
	count int
}

// NewFramer constructs a Framer. cfg.LineMax and cfg.QueueDepth are clamped
// into their valid ranges (32-256, 1-32) the way grbl.h's sanity checks do.
func NewFramer(cfg Config) *Framer {
	if cfg.LineMax < 32 {
		cfg.LineMax = 32
	} else if cfg.LineMax > 256 {
		cfg.LineMax = 256
	}
	if cfg.QueueDepth < 1 {
		cfg.QueueDepth = 1
	} else if cfg.QueueDepth > 32 {
		cfg.QueueDepth = 32
	}
	return &Framer{
		cfg:   cfg,
		buf:   make([]byte, 0, cfg.LineMax),
		queue: make([]Line, cfg.QueueDepth),
	}
}

// OnLine registers a synchronous line callback. When unset, completed
// lines are pushed to the internal queue instead (Pop retrieves them).
func (f *Framer) OnLine(h LineHandler) { f.onLine = h }

// OnRealTime registers a synchronous real-time event callback.
func (f *Framer) OnRealTime(h RealTimeHandler) { f.onRealTime = h }

// Feed processes an arbitrary-length chunk of bytes. Real-time bytes fire
// their callback immediately and never reach the line buffer; completed
// lines are delivered (or queued) in the order their LF was observed.
func (f *Framer) Feed(data []byte) {
	for _, b := range data {
		f.feedByte(b)
	}
}

func (f *Framer) feedByte(b byte) {
	switch b {
	case 0x18:
		f.reset()
		f.emitRealTime(EventReset)
		return
	case '?':
		f.emitRealTime(EventStatusQuery)
		return
	case '!':
		f.emitRealTime(EventFeedHold)
		return
	case '~':
		f.emitRealTime(EventCycleStart)
		return
	}

	if b == '\n' {
		f.completeLine()
		return
	}
	if b == '\r' {
		return
	}
	if !isPrintable(b) && b != '\t' {
		return
	}

	if f.inParenComment {
		if b == ')' {
			f.inParenComment = false
		}
		return
	}
	if f.inSemicolonComment {
		// Eaten until LF; real-time bytes already intercepted above.
		return
	}
	if f.cfg.StripParenComments && b == '(' {
		f.inParenComment = true
		return
	}
	if f.cfg.StripSemicolonComments && b == ';' {
		f.inSemicolonComment = true
		return
	}

	if f.overflow {
		return
	}
	if len(f.buf) >= f.cfg.LineMax {
		f.overflow = true
		return
	}
	if f.cfg.ToUppercase && b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	f.buf = append(f.buf, b)
}

func isPrintable(b byte) bool { return b >= 0x20 && b < 0x7F }

func (f *Framer) completeLine() {
	overflow := f.overflow
	text := string(f.buf)

	f.buf = f.buf[:0]
	f.overflow = false
	f.inParenComment = false
	f.inSemicolonComment = false

	if overflow {
		f.deliver(Line{Text: text, Status: StatusOverflow})
		return
	}

	trimmed := strings.Trim(text, " \t")
	if trimmed == "" {
		return
	}
	if trimmed[0] == '$' && !f.cfg.AllowDollarCommands {
		return
	}
	f.deliver(Line{Text: trimmed, Status: StatusOK})
}

func (f *Framer) deliver(line Line) {
	if f.onLine != nil {
		f.onLine(line)
		return
	}
	f.push(line)
}

func (f *Framer) emitRealTime(evt RealTimeEvent) {
	if f.onRealTime != nil {
		f.onRealTime(evt)
	}
}

func (f *Framer) reset() {
	f.buf = f.buf[:0]
	f.overflow = false
	f.inParenComment = false
	f.inSemicolonComment = false
	f.head = 0
	f.count = 0
}

// push enqueues a line, dropping the newest line if the queue is full
// (spec.md §4.1: "A full queue drops the newest line").
func (f *Framer) push(line Line) {
	if f.count >= len(f.queue) {
		return
	}
	idx := (f.head + f.count) % len(f.queue)
	f.queue[idx] = line
	f.count++
}

// Pop retrieves the oldest queued line, FIFO. Only meaningful when no
// OnLine handler is registered.
func (f *Framer) Pop() (Line, bool) {
	if f.count == 0 {
		return Line{}, false
	}
	line := f.queue[f.head]
	f.head = (f.head + 1) % len(f.queue)
	f.count--
	return line, true
}

// QueueLen reports the number of lines currently queued.
func (f *Framer) QueueLen() int { return f.count }
