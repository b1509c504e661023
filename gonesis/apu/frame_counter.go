package apu

// FrameCounterMode selects the 4-step or 5-step frame sequence.
type FrameCounterMode uint8

const (
	FourStep FrameCounterMode = iota
	FiveStep
)

// ResetState tracks the delay between a write to 0x4017 and the sequencer
// actually restarting: the reset lands on the second even cycle after the
// write.
type ResetState uint8

const (
	ResetNone ResetState = iota
	ResetUpdated
	ResetPending
	ResetJustReset
)

const (
	fourStepPeriod = 29830
	fiveStepPeriod = 37282
)

// FrameCounter generates the quarter and half frame clocks that drive
// envelopes, sweeps and length counters, and the 4-step frame IRQ.
type FrameCounter struct {
	CPUTicks uint16
	Mode     FrameCounterMode
	Inhibit  bool
	Reset    ResetState
}

func (f *FrameCounter) processJoy2Update(value uint8) {
	if value&0x80 != 0 {
		f.Mode = FiveStep
	} else {
		f.Mode = FourStep
	}
	f.Inhibit = value&0x40 != 0
	f.Reset = ResetUpdated
}

func (f *FrameCounter) tick() {
	if f.Reset == ResetJustReset {
		f.Reset = ResetNone
	}

	if (f.CPUTicks == fourStepPeriod && f.Mode == FourStep) || f.CPUTicks == fiveStepPeriod {
		f.CPUTicks = 1
	} else {
		f.CPUTicks++
	}

	if f.CPUTicks&0x01 == 0 {
		switch f.Reset {
		case ResetUpdated:
			f.Reset = ResetPending
		case ResetPending:
			f.CPUTicks = 0
			f.Reset = ResetJustReset
		}
	}
}

func (f *FrameCounter) justResetFiveStep() bool {
	return f.Reset == ResetJustReset && f.Mode == FiveStep
}

func (f *FrameCounter) quarterFrameClock() bool {
	switch f.CPUTicks {
	case 7456, 14912, 22370, 37280:
		return true
	case 29828:
		return f.Mode == FourStep
	}
	return f.justResetFiveStep()
}

func (f *FrameCounter) halfFrameClock() bool {
	switch f.CPUTicks {
	case 14912, 37280:
		return true
	case 29828:
		return f.Mode == FourStep
	}
	return f.justResetFiveStep()
}

func (f *FrameCounter) shouldSetInterrupt() bool {
	return !f.Inhibit && f.Mode == FourStep && f.CPUTicks >= 29827 && f.CPUTicks <= 29829
}
