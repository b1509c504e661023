// Package wavsink records APU output to a WAV file. Samples arrive at the
// APU rate (half the CPU clock) and are box filtered down to the output
// rate before being written as 16-bit mono PCM.
package wavsink

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// APURate is the rate samples are pushed at on NTSC hardware.
const APURate = 1789773.0 / 2

const (
	bitDepth  = 16
	maxSample = 1<<(bitDepth-1) - 1
	chunkSize = 4096
	wavPCM    = 1
)

// Sink implements gonesis.AudioSink.
type Sink struct {
	enc    *wav.Encoder
	closer io.Closer
	buf    *audio.IntBuffer

	// step is the number of input samples per output sample.
	step  float64
	phase float64
	sum   float64
	count int

	written int
	err     error
}

// New writes to w at the given output rate. The header is rewritten on
// Close, so w must be seekable.
func New(w io.WriteSeeker, rate int) *Sink {
	return &Sink{
		enc: wav.NewEncoder(w, rate, bitDepth, 1, wavPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
			SourceBitDepth: bitDepth,
			Data:           make([]int, 0, chunkSize),
		},
		step: APURate / float64(rate),
	}
}

// Create opens path for writing and returns a sink that closes it.
func Create(path string, rate int) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	s := New(f, rate)
	s.closer = f
	return s, nil
}

// PushSample takes one APU sample in [-1, 1]; values outside are clipped.
func (s *Sink) PushSample(sample float64) {
	s.sum += sample
	s.count++
	s.phase++
	if s.phase < s.step {
		return
	}
	s.phase -= s.step

	s.emit(s.sum / float64(s.count))
	s.sum, s.count = 0, 0
}

func (s *Sink) emit(v float64) {
	v = min(max(v, -1), 1)
	s.buf.Data = append(s.buf.Data, int(v*maxSample))
	if len(s.buf.Data) == chunkSize {
		s.flush()
	}
}

func (s *Sink) flush() {
	if len(s.buf.Data) == 0 || s.err != nil {
		s.buf.Data = s.buf.Data[:0]
		return
	}
	s.err = s.enc.Write(s.buf)
	s.written += len(s.buf.Data)
	s.buf.Data = s.buf.Data[:0]
}

// Written returns the number of output samples produced so far.
func (s *Sink) Written() int {
	return s.written + len(s.buf.Data)
}

// Close flushes buffered samples and finalizes the header. The first write
// error encountered, if any, is returned.
func (s *Sink) Close() error {
	s.flush()
	if err := s.enc.Close(); err != nil && s.err == nil {
		s.err = err
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil && s.err == nil {
			s.err = err
		}
	}
	if s.err != nil {
		return fmt.Errorf("writing wav: %w", s.err)
	}
	return nil
}
