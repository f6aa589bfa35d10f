// Command enginectl drives the motion-control core either against a real
// I/O bridge board over serial ("serve") or against an in-memory HAL fed
// from stdin ("sim"). Grounded on host/cmd/gopper-host/main.go's
// flag-parsed subcommand and interactive-scanner shape.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"enginecore/internal/config"
	"enginecore/internal/gcode"
	"enginecore/internal/hal"
	"enginecore/internal/hal/mockhal"
	"enginecore/internal/hal/serialhal"
	"enginecore/internal/kinematics"
	"enginecore/internal/logging"
	"enginecore/internal/protocol"
	"enginecore/internal/supervisor"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "sim":
		runSim(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("enginectl - 2-axis CNC motion-control host")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  enginectl serve [-config path] [-device path] [-baud N]")
	fmt.Println("  enginectl sim    [-config path]")
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to machine config YAML (optional)")
	device := fs.String("device", "", "Serial device path, overrides config")
	baud := fs.Int("baud", 0, "Baud rate, overrides config")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *baud != 0 {
		cfg.Serial.Baud = *baud
	}

	log := logging.New(cfg.Logging)

	h, err := serialhal.Open(&serialhal.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: time.Duration(cfg.Serial.ReadTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		log.Error("failed to open serial HAL", "error", err, "device", cfg.Serial.Device)
		os.Exit(1)
	}
	defer h.Close()

	log.Info("serving", "device", cfg.Serial.Device, "baud", cfg.Serial.Baud)
	runLoop(cfg, h, log, bufio.NewScanner(os.Stdin))
}

func runSim(args []string) {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to machine config YAML (optional)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	log := logging.New(cfg.Logging)
	h := mockhal.New()

	log.Info("simulating", "kinematics", cfg.Kinematics)
	runLoop(cfg, h, log, bufio.NewScanner(os.Stdin))
}

func loadConfig(path string) *config.MachineConfig {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %q: %v\n", path, err)
		os.Exit(1)
	}
	return cfg
}

// runLoop feeds stdin lines through the protocol framer and into the
// supervisor, printing "ok"/status responses — the single-threaded
// cooperative round-robin spec.md §5 describes, collapsed onto one
// goroutine driven by line-buffered stdin instead of a byte-at-a-time
// serial feed.
func runLoop(cfg *config.MachineConfig, h hal.HAL, log interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}, scanner *bufio.Scanner) {
	kin := kinematics.NewCartesian(kinematics.Config{
		StepsPerMM: cfg.StepsPerMM(),
		LimitMin:   cfg.LimitMin(),
		LimitMax:   cfg.LimitMax(),
	})

	sup := supervisor.New(kin, h, gcode.MotionParams{
		Acceleration: cfg.Motion.Acceleration,
		RapidRate:    cfg.Motion.RapidRate,
	})
	sup.SetLimitsEnabled(cfg.LimitsEnabled)
	sup.SetSoftLimitsEnabled(cfg.SoftLimitsEnabled)

	framer := protocol.NewFramer(protocol.DefaultConfig())
	framer.OnLine(func(ln protocol.Line) {
		if ln.Status == protocol.StatusOverflow {
			log.Error("line overflow", "text", ln.Text)
			return
		}
		status := sup.ProcessLine(ln.Text)
		if status == gcode.StatusOK {
			fmt.Println("ok")
		} else {
			fmt.Printf("error: %s\n", status)
		}
	})
	framer.OnRealTime(func(ev protocol.RealTimeEvent) {
		switch ev {
		case protocol.EventReset:
			sup.SoftReset()
		case protocol.EventStatusQuery:
			fmt.Println(sup.StatusReport())
		case protocol.EventFeedHold:
			sup.FeedHold()
		case protocol.EventCycleStart:
			sup.CycleStart()
		}
	})

	start := time.Now()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		framer.Feed([]byte(line + "\n"))
		if p, ok := h.(interface{ Poll() error }); ok {
			if err := p.Poll(); err != nil {
				log.Error("input poll failed", "error", err)
			}
		}
		sup.Poll(uint32(time.Since(start).Milliseconds()))
		sup.StepperUpdate()
	}
}
