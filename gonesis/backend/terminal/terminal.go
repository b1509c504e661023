// Package terminal draws frames in a terminal with half block characters,
// two NES pixels per cell, and reads the keyboard through tcell.
package terminal

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tevino/abool"

	"github.com/valerio/gonesis/gonesis/backend"
	"github.com/valerio/gonesis/gonesis/bus"
	"github.com/valerio/gonesis/gonesis/input"
	"github.com/valerio/gonesis/gonesis/ppu"
)

const (
	width  = ppu.ScreenWidth
	height = ppu.ScreenHeight

	minTermWidth  = width
	minTermHeight = height / 2

	logCapacity = 200
)

// Terminals only report key presses, so a key counts as held until this
// long after its last press or repeat.
const keyTimeout = 100 * time.Millisecond

// Backend implements backend.Backend with tcell.
type Backend struct {
	screen     tcell.Screen
	ownsScreen bool
	config     backend.Config

	running     *abool.AtomicBool
	interrupted *abool.AtomicBool

	logBuffer *LogBuffer
	logLevel  *slog.LevelVar

	keyStates map[input.Action]time.Time
	pending   []input.Action
}

// New returns a backend that opens the real terminal in Init.
func New() *Backend {
	return &Backend{
		ownsScreen:  true,
		running:     abool.New(),
		interrupted: abool.New(),
		logLevel:    new(slog.LevelVar),
	}
}

// NewWithScreen draws to an existing screen, such as a simulation screen.
// Init still initializes it, but no signal handler is installed.
func NewWithScreen(screen tcell.Screen) *Backend {
	t := New()
	t.screen = screen
	t.ownsScreen = false
	return t
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.keyStates = make(map[input.Action]time.Time)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	t.running.Set()

	// Anything written to stderr would tear the display, so logs go to the
	// side panel from here on.
	t.logLevel.Set(slog.LevelInfo)
	t.logBuffer = NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(NewLogBufferHandler(t.logBuffer, t.logLevel)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	if t.ownsScreen {
		go t.handleSignals()
	}

	slog.Info("terminal backend initialized", "title", config.Title)
	return nil
}

func (t *Backend) Update(frame *ppu.FrameBuffer) (backend.Input, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
	if t.interrupted.IsSet() {
		t.pending = append(t.pending, input.EmulatorQuit)
		t.interrupted.UnSet()
	}

	in := backend.Input{Buttons: t.heldButtons(now), Actions: t.pending}
	t.pending = nil

	for _, act := range in.Actions {
		t.handleAction(act)
	}

	if t.running.IsSet() {
		t.render(frame)
		t.screen.Show()
	}
	return in, nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// Logs returns the captured log buffer.
func (t *Backend) Logs() *LogBuffer {
	return t.logBuffer
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.running.UnSet()
	t.interrupted.Set()
}

// handleAction applies the commands the backend owns itself. Every action
// is still passed on to the caller.
func (t *Backend) handleAction(act input.Action) {
	switch act {
	case input.EmulatorQuit:
		t.running.UnSet()
	case input.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
	case input.DebugLogLevelIncrease:
		t.changeLogLevel(-4)
	case input.DebugLogLevelDecrease:
		t.changeLogLevel(4)
	}
}

// changeLogLevel moves the filter by delta; slog levels are spaced by 4.
func (t *Backend) changeLogLevel(delta slog.Level) {
	old := t.logLevel.Level()
	next := min(max(old+delta, slog.LevelDebug), slog.LevelError)
	if next != old {
		t.logLevel.Set(next)
		slog.Info("log filter changed", "from", old, "to", next)
	}
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyEscape:     "Escape",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyF5:         "F5",
	tcell.KeyF7:         "F7",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
}

func keyName(ev *tcell.EventKey) (string, bool) {
	if ev.Key() != tcell.KeyRune {
		name, ok := keyNames[ev.Key()]
		return name, ok
	}
	if ev.Rune() == ' ' {
		return "Space", true
	}
	return string(ev.Rune()), true
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	var act input.Action
	if ev.Key() == tcell.KeyCtrlC {
		act = input.EmulatorQuit
	} else {
		name, ok := keyName(ev)
		if !ok {
			return
		}
		if act, ok = input.DefaultMapping(name); !ok {
			return
		}
	}

	if _, isButton := act.Button(); !isButton {
		slog.Debug("key", "action", act)
		t.pending = append(t.pending, act)
		return
	}

	// Only one direction at a time: without key release events, a stale
	// direction would otherwise stay held alongside the new one.
	if act.IsDirection() {
		for _, d := range []input.Action{input.DPadUp, input.DPadDown, input.DPadLeft, input.DPadRight} {
			delete(t.keyStates, d)
		}
	}
	t.keyStates[act] = now
}

func (t *Backend) heldButtons(now time.Time) bus.Button {
	var buttons bus.Button
	for act, pressed := range t.keyStates {
		if now.Sub(pressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		b, _ := act.Button()
		buttons |= b
	}
	return buttons
}

func (t *Backend) render(frame *ppu.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	t.drawFrame(frame)

	panelX := width + 1
	if panelX >= termWidth {
		return
	}
	border := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := range termHeight {
		t.screen.SetContent(width, y, '│', nil, border)
	}

	y := 0
	if t.config.ShowDebug && t.config.Debug != nil {
		title := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		t.drawText(panelX, y, termWidth, t.config.Title, title)
		y++
		for _, line := range t.config.Debug.DebugLines() {
			t.drawText(panelX, y, termWidth, line, tcell.StyleDefault)
			y++
		}
		y++
	}
	t.drawLogs(panelX, y, termWidth, termHeight)
}

// drawFrame packs each pair of rows into one line of cells: the upper
// half block takes the top pixel as foreground, the bottom as background.
func (t *Backend) drawFrame(frame *ppu.FrameBuffer) {
	for y := 0; y < height; y += 2 {
		for x := range width {
			top := rgb(ppu.Color(frame.Index(x, y)))
			bottom := rgb(ppu.Color(frame.Index(x, y+1)))
			t.screen.SetContent(x, y/2, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *Backend) drawLogs(x, y, termWidth, termHeight int) {
	if y >= termHeight {
		return
	}
	entries := t.logBuffer.Recent(termHeight - y)
	// Oldest at the top, newest at the bottom.
	for i := len(entries) - 1; i >= 0; i-- {
		style := tcell.StyleDefault.Foreground(tcell.ColorSilver)
		switch {
		case entries[i].Level >= slog.LevelError:
			style = style.Foreground(tcell.ColorRed)
		case entries[i].Level >= slog.LevelWarn:
			style = style.Foreground(tcell.ColorYellow)
		}
		t.drawText(x, y, termWidth, FormatLogEntry(entries[i]), style)
		y++
	}
}

func (t *Backend) drawText(x, y, maxX int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= maxX {
			return
		}
		t.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
