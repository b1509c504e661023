package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/gonesis/gonesis"
	"github.com/valerio/gonesis/gonesis/audio/wavsink"
	"github.com/valerio/gonesis/gonesis/backend"
	"github.com/valerio/gonesis/gonesis/backend/headless"
	"github.com/valerio/gonesis/gonesis/backend/terminal"
	"github.com/valerio/gonesis/gonesis/config"
	"github.com/valerio/gonesis/gonesis/debug"
	"github.com/valerio/gonesis/gonesis/input"
	"github.com/valerio/gonesis/gonesis/timing"
)

var runCommand = cli.Command{
	Name:      "run",
	Usage:     "Run a ROM in the terminal, or headless for a fixed number of frames",
	ArgsUsage: "<ROM file>",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display (requires --frames)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Stop after this many frames (0 = until quit)",
		},
		seedFlag,
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing: adaptive, ticker or none",
		},
		cli.StringFlag{
			Name:  "wav",
			Usage: "Record audio to this WAV file",
		},
		cli.IntFlag{
			Name:  "sample-rate",
			Usage: "Sample rate of the WAV recording",
		},
		cli.StringFlag{
			Name:  "screenshot",
			Usage: "Save the last frame to this file (.png or .bmp)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Scale factor for --screenshot",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save a PNG every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory for --snapshot-interval PNGs (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "state",
			Usage: "Save state file used by the save and load keys",
		},
		cli.BoolFlag{
			Name:  "load-state",
			Usage: "Load --state before starting",
		},
		cli.StringFlag{
			Name:  "trace",
			Usage: "Write one line per CPU instruction to this file",
		},
	},
	Action: runROM,
}

func runROM(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	console, err := newConsole(c, settings)
	if err != nil {
		return err
	}
	romPath := c.Args().First()

	s := &session{
		console:   console,
		romName:   strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath)),
		statePath: c.String("state"),
		maxFrames: c.Int("frames"),
	}
	if s.statePath == "" {
		s.statePath = strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".state"
	}
	if c.Bool("load-state") {
		if err := s.loadState(); err != nil {
			return err
		}
	}

	if path := c.String("wav"); path != "" {
		sink, err := wavsink.Create(path, settings.SampleRate)
		if err != nil {
			return err
		}
		defer func() {
			if err := sink.Close(); err != nil {
				slog.Error("failed to finish WAV", "path", path, "error", err)
			}
		}()
		console.SetAudioSink(sink)
	}

	if path := c.String("trace"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating trace: %w", err)
		}
		defer f.Close()
		s.trace = bufio.NewWriter(f)
		defer s.trace.Flush()
	}

	if c.Bool("headless") {
		if s.maxFrames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}
		s.backend = headless.New(s.maxFrames, snapshots)
		s.limiter = timing.NewNoOpLimiter()
	} else {
		s.backend = terminal.New()
		s.limiter = newLimiter(settings.Limiter)
	}

	if err := s.backend.Init(backend.Config{Title: s.romName, Debug: console}); err != nil {
		return err
	}
	err = s.run()
	if cerr := s.backend.Cleanup(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if path := c.String("screenshot"); path != "" {
		return debug.SaveFrame(path, console.FrameBuffer(), settings.Scale)
	}
	return nil
}

func newLimiter(name string) timing.Limiter {
	switch name {
	case config.LimiterTicker:
		return timing.NewTickerLimiter()
	case config.LimiterNone:
		return timing.NewNoOpLimiter()
	default:
		return timing.NewAdaptiveLimiter()
	}
}

// session is one run of the emulator loop.
type session struct {
	console *gonesis.Console
	backend backend.Backend
	limiter timing.Limiter
	trace   *bufio.Writer

	romName   string
	statePath string
	maxFrames int
	paused    bool
}

func (s *session) run() error {
	for frames := 0; s.maxFrames <= 0 || frames < s.maxFrames; {
		if !s.paused {
			if err := s.runFrame(); err != nil {
				return err
			}
			frames++
		}

		in, err := s.backend.Update(s.console.FrameBuffer())
		if err != nil {
			return err
		}
		s.console.SetJoypad(0, in.Buttons)
		for _, act := range in.Actions {
			if act == input.EmulatorQuit {
				return nil
			}
			if err := s.handleAction(act); err != nil {
				slog.Error("action failed", "action", act, "error", err)
			}
		}

		s.limiter.WaitForNextFrame()
	}
	return nil
}

func (s *session) runFrame() error {
	if s.trace == nil {
		s.console.RunUntilFrame()
		return nil
	}
	for {
		if _, err := fmt.Fprintln(s.trace, s.console.Trace()); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		if s.console.Step().FrameComplete {
			return nil
		}
	}
}

func (s *session) handleAction(act input.Action) error {
	if ch, ok := act.Channel(); ok {
		s.console.APU().ToggleChannel(ch)
		slog.Info("audio channel toggled", "channel", ch, "audible", s.console.APU().ChannelStatus()[ch])
		return nil
	}

	switch act {
	case input.EmulatorPauseToggle:
		s.paused = !s.paused
		s.limiter.Reset()
		slog.Info("pause", "paused", s.paused)
	case input.EmulatorStepFrame:
		if s.paused {
			return s.runFrame()
		}
	case input.EmulatorScreenshot:
		_, err := debug.SaveFramePNGToDir(s.console.FrameBuffer(), s.romName, "")
		return err
	case input.EmulatorSaveState:
		return s.saveState()
	case input.EmulatorLoadState:
		return s.loadState()
	case input.AudioUnmuteAll:
		s.console.APU().UnmuteAll()
	}
	return nil
}

func (s *session) saveState() error {
	f, err := os.Create(s.statePath)
	if err != nil {
		return fmt.Errorf("creating state file: %w", err)
	}
	if err := s.console.SaveState(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing state file: %w", err)
	}
	slog.Info("state saved", "path", s.statePath)
	return nil
}

func (s *session) loadState() error {
	f, err := os.Open(s.statePath)
	if err != nil {
		return fmt.Errorf("opening state file: %w", err)
	}
	defer f.Close()

	if err := s.console.LoadState(bufio.NewReader(f)); err != nil {
		return err
	}
	slog.Info("state loaded", "path", s.statePath)
	return nil
}
