package apu

// State is the serializable APU state. Channel mutes are a debug setting and
// are not part of it.
type State struct {
	Pulse1       PulseChannel
	Pulse2       PulseChannel
	Triangle     TriangleChannel
	Noise        NoiseChannel
	DMC          DeltaModulationChannel
	FrameCounter FrameCounter
	FrameIRQ     bool
	HPFCapacitor float64
	LastSample   float64
}

func (a *APU) State() State {
	return State{
		Pulse1:       a.pulse1,
		Pulse2:       a.pulse2,
		Triangle:     a.triangle,
		Noise:        a.noise,
		DMC:          a.dmc,
		FrameCounter: a.frameCounter,
		FrameIRQ:     a.frameIRQ,
		HPFCapacitor: a.hpfCapacitor,
		LastSample:   a.lastSample,
	}
}

func (a *APU) Restore(s State) {
	a.pulse1 = s.Pulse1
	a.pulse2 = s.Pulse2
	a.triangle = s.Triangle
	a.noise = s.Noise
	a.dmc = s.DMC
	a.frameCounter = s.FrameCounter
	a.frameIRQ = s.FrameIRQ
	a.hpfCapacitor = s.HPFCapacitor
	a.lastSample = s.LastSample
}
