package bus

// Button is a bit in the standard controller's report, in shift order.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// joypad is a standard controller: an 8 bit parallel-in, serial-out shift
// register. While strobe is high it keeps reloading, so every read returns
// the A button.
type joypad struct {
	pressed Button
	shift   uint8
}

func (j *joypad) latch() {
	j.shift = uint8(j.pressed)
}

func (j *joypad) read(strobe bool) uint8 {
	if strobe {
		j.latch()
		return j.shift & 0x01
	}

	value := j.shift & 0x01
	// official pads shift in 1s after the eighth read
	j.shift = j.shift>>1 | 0x80
	return value
}
