package protocol

import "testing"

func TestFramerBasicLine(t *testing.T) {
	var got []Line
	f := NewFramer(DefaultConfig())
	f.OnLine(func(l Line) { got = append(got, l) })

	f.Feed([]byte("g01 x10 y20\n"))

	if len(got) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got))
	}
	if got[0].Text != "G01 X10 Y20" {
		t.Errorf("text = %q, want %q", got[0].Text, "G01 X10 Y20")
	}
	if got[0].Status != StatusOK {
		t.Errorf("status = %v, want OK", got[0].Status)
	}
}

func TestFramerEmptyLineIgnored(t *testing.T) {
	var got []Line
	f := NewFramer(DefaultConfig())
	f.OnLine(func(l Line) { got = append(got, l) })

	f.Feed([]byte("   \t \n"))

	if len(got) != 0 {
		t.Fatalf("expected no lines, got %d", len(got))
	}
}

func TestFramerDollarCommandFiltered(t *testing.T) {
	var got []Line
	cfg := DefaultConfig()
	cfg.AllowDollarCommands = false
	f := NewFramer(cfg)
	f.OnLine(func(l Line) { got = append(got, l) })

	f.Feed([]byte("$$\nG01 X1\n"))

	if len(got) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got))
	}
	if got[0].Text != "G01 X1" {
		t.Errorf("text = %q, want %q", got[0].Text, "G01 X1")
	}
}

func TestFramerCommentStripping(t *testing.T) {
	var got []Line
	f := NewFramer(DefaultConfig())
	f.OnLine(func(l Line) { got = append(got, l) })

	f.Feed([]byte("G01 (move fast) X10 ; trailing comment\n"))

	if len(got) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got))
	}
	if got[0].Text != "G01  X10" {
		t.Errorf("text = %q, want %q", got[0].Text, "G01  X10")
	}
}

func TestFramerOverflow(t *testing.T) {
	var got []Line
	cfg := DefaultConfig()
	cfg.LineMax = 32
	f := NewFramer(cfg)
	f.OnLine(func(l Line) { got = append(got, l) })

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'X'
	}
	f.Feed(long)
	f.Feed([]byte("\n"))

	if len(got) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got))
	}
	if got[0].Status != StatusOverflow {
		t.Errorf("status = %v, want OVERFLOW", got[0].Status)
	}
	if len(got[0].Text) > cfg.LineMax {
		t.Errorf("delivered length %d exceeds LineMax %d", len(got[0].Text), cfg.LineMax)
	}
}

func TestFramerRealTimeInterleave(t *testing.T) {
	var lines []Line
	var events []RealTimeEvent
	f := NewFramer(DefaultConfig())
	f.OnLine(func(l Line) { lines = append(lines, l) })
	f.OnRealTime(func(e RealTimeEvent) { events = append(events, e) })

	f.Feed([]byte("G01 X10 Y10 F100\n!"))
	f.Feed([]byte("~"))

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if len(events) != 2 || events[0] != EventFeedHold || events[1] != EventCycleStart {
		t.Fatalf("events = %v, want [FeedHold CycleStart]", events)
	}
}

func TestFramerRealTimeInsideSemicolonComment(t *testing.T) {
	var events []RealTimeEvent
	f := NewFramer(DefaultConfig())
	f.OnRealTime(func(e RealTimeEvent) { events = append(events, e) })

	// '?' arrives mid semicolon-comment; it must still fire and must never
	// appear in any delivered line (spec.md §9 correction).
	f.Feed([]byte("G01 X1 ;comment ? still comment\n"))

	if len(events) != 1 || events[0] != EventStatusQuery {
		t.Fatalf("events = %v, want [StatusQuery]", events)
	}
}

func TestFramerResetClearsBufferAndQueue(t *testing.T) {
	f := NewFramer(DefaultConfig())
	f.Feed([]byte("G01 X1\nG01 X2\n"))
	if f.QueueLen() != 2 {
		t.Fatalf("expected 2 queued lines before reset, got %d", f.QueueLen())
	}

	f.Feed([]byte{0x18})
	if f.QueueLen() != 0 {
		t.Errorf("expected queue cleared after reset, got %d", f.QueueLen())
	}
}

func TestFramerQueueDropsNewestWhenFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueDepth = 1
	f := NewFramer(cfg)

	f.Feed([]byte("G01 X1\nG01 X2\n"))

	line, ok := f.Pop()
	if !ok {
		t.Fatal("expected a queued line")
	}
	if line.Text != "G01 X1" {
		t.Errorf("text = %q, want first line retained", line.Text)
	}
	if _, ok := f.Pop(); ok {
		t.Error("expected queue empty after popping the one retained line")
	}
}
