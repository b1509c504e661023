package cpu

// State is the serializable form of the CPU.
type State struct {
	A, X, Y   uint8
	SP        uint8
	P         uint8
	PC        uint16
	Cycles    uint64
	IRQMasked bool
	Jammed    bool
}

// State captures the CPU for a snapshot.
func (c *CPU) State() State {
	return State{
		A:         c.a,
		X:         c.x,
		Y:         c.y,
		SP:        c.sp,
		P:         c.p,
		PC:        c.pc,
		Cycles:    c.cycles,
		IRQMasked: c.irqMasked,
		Jammed:    c.jammed,
	}
}

// Restore replaces the register file with s.
func (c *CPU) Restore(s State) {
	c.a, c.x, c.y = s.A, s.X, s.Y
	c.sp = s.SP
	c.p = s.P
	c.pc = s.PC
	c.cycles = s.Cycles
	c.irqMasked = s.IRQMasked
	c.jammed = s.Jammed
}
