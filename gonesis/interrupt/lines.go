// Package interrupt models the NMI and IRQ input lines of the 6502.
package interrupt

// LineState is the electrical level of an interrupt line. Both lines are
// active low.
type LineState uint8

const (
	High LineState = iota
	Low
)

// Source identifies a device that can pull the IRQ line low.
type Source uint8

const (
	SourceDMC          Source = 0x01
	SourceFrameCounter Source = 0x02
	SourceMapper       Source = 0x04
)

// IRQStatus tracks the one cycle latency between the IRQ line going low and
// the CPU observing it.
type IRQStatus uint8

const (
	IRQNone IRQStatus = iota
	IRQPending
	IRQTriggered
)

// Lines holds the state of both interrupt lines.
//
// NMI is edge triggered: a high to low transition latches a flag that stays
// set until the CPU acknowledges it. IRQ is level triggered: the line is the
// OR of every source currently pulling it low, and a newly pulled line goes
// through one Pending tick before it becomes Triggered. Releasing every
// source clears the status on the same tick.
type Lines struct {
	nmiLine      LineState
	nextNMILine  LineState
	nmiTriggered bool
	irqLowPull   uint8
	irqStatus    IRQStatus
}

// New returns lines with both inputs high.
func New() Lines {
	return Lines{
		nmiLine:     High,
		nextNMILine: High,
		irqStatus:   IRQNone,
	}
}

// Tick advances the lines by one CPU cycle.
func (l *Lines) Tick() {
	if l.nmiLine == High && l.nextNMILine == Low {
		l.nmiTriggered = true
	}
	l.nmiLine = l.nextNMILine

	if l.irqLowPull != 0 {
		switch l.irqStatus {
		case IRQNone:
			l.irqStatus = IRQPending
		case IRQPending, IRQTriggered:
			l.irqStatus = IRQTriggered
		}
	} else {
		l.irqStatus = IRQNone
	}
}

// SetNMILine sets the level the NMI line will take on the next Tick.
func (l *Lines) SetNMILine(state LineState) {
	l.nextNMILine = state
}

// NMITriggered reports whether a falling edge was seen on the NMI line
// since the last acknowledgement.
func (l *Lines) NMITriggered() bool {
	return l.nmiTriggered
}

// ClearNMITriggered acknowledges a pending NMI.
func (l *Lines) ClearNMITriggered() {
	l.nmiTriggered = false
}

// SetIRQLowPull updates whether source is currently pulling the IRQ line low.
// A release takes effect immediately.
func (l *Lines) SetIRQLowPull(source Source, pull bool) {
	if pull {
		l.irqLowPull |= uint8(source)
		return
	}

	l.irqLowPull &^= uint8(source)
	if l.irqLowPull == 0 {
		l.irqStatus = IRQNone
	}
}

// IRQLowPulled reports whether source is pulling the line.
func (l *Lines) IRQLowPulled(source Source) bool {
	return l.irqLowPull&uint8(source) != 0
}

// IRQTriggered reports whether the CPU should service an IRQ.
func (l *Lines) IRQTriggered() bool {
	return l.irqStatus == IRQTriggered
}

// State is the serializable form of Lines.
type State struct {
	NMILine      LineState
	NextNMILine  LineState
	NMITriggered bool
	IRQLowPull   uint8
	IRQStatus    IRQStatus
}

// State exports the current line state for snapshots.
func (l *Lines) State() State {
	return State{
		NMILine:      l.nmiLine,
		NextNMILine:  l.nextNMILine,
		NMITriggered: l.nmiTriggered,
		IRQLowPull:   l.irqLowPull,
		IRQStatus:    l.irqStatus,
	}
}

// Restore replaces the line state with s.
func (l *Lines) Restore(s State) {
	l.nmiLine = s.NMILine
	l.nextNMILine = s.NextNMILine
	l.nmiTriggered = s.NMITriggered
	l.irqLowPull = s.IRQLowPull
	l.irqStatus = s.IRQStatus
}
