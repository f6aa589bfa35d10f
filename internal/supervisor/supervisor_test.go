package supervisor

import (
	"strings"
	"testing"

	"enginecore/internal/gcode"
	"enginecore/internal/hal"
	"enginecore/internal/hal/mockhal"
	"enginecore/internal/kinematics"
)

const posTol = 0.001

func newTestSupervisor() (*Supervisor, *mockhal.HAL) {
	kin := kinematics.NewCartesian(kinematics.Config{
		StepsPerMM: [3]float64{1, 1, 1},
		LimitMin:   [3]float64{-1000, -1000, -1000},
		LimitMax:   [3]float64{1000, 1000, 1000},
	})
	h := mockhal.New()
	s := New(kin, h, gcode.MotionParams{Acceleration: 500, RapidRate: 3000})
	return s, h
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// spec.md §8 end-to-end scenario 1: Basic engrave.
func TestBasicEngraveScenario(t *testing.T) {
	s, _ := newTestSupervisor()
	lines := []string{
		"G90",
		"G00 X0 Y0",
		"M03 S1500",
		"G01 X50 Y0 F200",
		"G01 X50 Y50",
		"M05",
		"M30",
	}
	for _, l := range lines {
		if status := s.ProcessLine(l); status != gcode.StatusOK {
			t.Fatalf("line %q: status = %v", l, status)
		}
	}
	if s.LinesProcessed() != 7 {
		t.Errorf("lines_processed = %d, want 7", s.LinesProcessed())
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want Idle after program end", s.State())
	}
}

// spec.md §8 scenario 5: Alarm latching.
func TestAlarmLatching(t *testing.T) {
	s, _ := newTestSupervisor()
	s.ProcessLine("G90")
	s.TriggerAlarm(AlarmHardLimit)

	if ok := s.SetState(StateRunning); ok {
		t.Error("SetState(Running) succeeded while latched in Alarm, want false")
	}
	if s.State() != StateAlarm {
		t.Errorf("state = %v, want Alarm to remain latched", s.State())
	}

	if !s.ClearAlarm() {
		t.Fatal("ClearAlarm() = false, want true")
	}
	if s.Alarm() != AlarmNone {
		t.Errorf("alarm = %v, want None after clear", s.Alarm())
	}
	if ok := s.SetState(StateRunning); !ok {
		t.Error("SetState(Running) failed after clearing alarm, want true")
	}
}

// spec.md §8 scenario 6: Check mode.
func TestCheckModeParsesWithoutExecuting(t *testing.T) {
	s, _ := newTestSupervisor()
	s.SetState(StateCheck)
	before := s.executor.State().X

	status := s.ProcessLine("G01 X10 Y10 F100")
	if status != gcode.StatusOK {
		t.Fatalf("status = %v, want OK", status)
	}
	if s.LinesProcessed() != 1 {
		t.Errorf("lines_processed = %d, want 1", s.LinesProcessed())
	}
	if s.executor.State().X != before {
		t.Errorf("position changed in Check mode: X = %v, want unchanged %v", s.executor.State().X, before)
	}
}

func TestHardLimitTriggersAlarmDuringPoll(t *testing.T) {
	s, h := newTestSupervisor()
	s.ProcessLine("G01 X1 Y0 F100") // -> Idle to Running
	if s.State() != StateRunning {
		t.Fatalf("state = %v, want Running", s.State())
	}
	h.SetLimit(hal.AxisX, true)
	s.Poll(1000)
	if s.State() != StateAlarm || s.Alarm() != AlarmHardLimit {
		t.Errorf("state/alarm = %v/%v, want Alarm/HardLimit", s.State(), s.Alarm())
	}
}

func TestEStopTriggersAlarmDuringPoll(t *testing.T) {
	s, h := newTestSupervisor()
	s.ProcessLine("G01 X1 Y0 F100")
	h.SetEStop(true)
	s.Poll(1000)
	if s.State() != StateAlarm || s.Alarm() != AlarmEStop {
		t.Errorf("state/alarm = %v/%v, want Alarm/EStop", s.State(), s.Alarm())
	}
}

func TestFeedHoldAndCycleStart(t *testing.T) {
	s, _ := newTestSupervisor()
	s.ProcessLine("G01 X1 Y0 F100")
	s.FeedHold()
	if s.State() != StateHold {
		t.Fatalf("state = %v, want Hold", s.State())
	}
	s.CycleStart()
	if s.State() != StateRunning {
		t.Fatalf("state = %v, want Running", s.State())
	}
}

func TestHomingSucceedsFromIdle(t *testing.T) {
	s, _ := newTestSupervisor()
	if !s.StartHoming(kinematics.AxisX | kinematics.AxisY) {
		t.Fatal("StartHoming() = false, want true")
	}
	if !s.Homed() {
		t.Error("Homed() = false after successful homing")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want Idle after homing completes", s.State())
	}
}

func TestHomingRejectedWhenNotIdle(t *testing.T) {
	s, _ := newTestSupervisor()
	s.ProcessLine("G01 X1 Y0 F100")
	if s.StartHoming(kinematics.AxisX) {
		t.Error("StartHoming() succeeded while Running, want false")
	}
}

func TestStatusReportGrammar(t *testing.T) {
	s, _ := newTestSupervisor()
	s.ProcessLine("G90 X10 Y20 F300")
	s.ProcessLine("G01 X10 Y20")
	report := s.StatusReport()
	if !strings.HasPrefix(report, "<Run|MPos:10.000,20.000,0.000|WPos:10.000,20.000,0.000|F:300.0|S:0") {
		t.Errorf("status report = %q, unexpected prefix", report)
	}
	if !strings.HasSuffix(report, ">") {
		t.Errorf("status report = %q, want suffix '>'", report)
	}

	s.TriggerAlarm(AlarmSoftLimit)
	alarmReport := s.StatusReport()
	if !strings.Contains(alarmReport, "|A:SoftLimit>") {
		t.Errorf("status report = %q, want A:SoftLimit field for Alarm state", alarmReport)
	}
}

func TestCheckSoftLimits(t *testing.T) {
	s, _ := newTestSupervisor()
	if !s.CheckSoftLimits(100, 100, -10) {
		t.Error("CheckSoftLimits(100,100,-10) = false, want true (within defaults)")
	}
	if s.CheckSoftLimits(250, 100, -10) {
		t.Error("CheckSoftLimits(250,100,-10) = true, want false (X over max)")
	}
}
