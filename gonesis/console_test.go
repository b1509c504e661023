package gonesis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cespare/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/gonesis/gonesis/apu"
	"github.com/valerio/gonesis/gonesis/cartridge"
	"github.com/valerio/gonesis/gonesis/ppu"
	"github.com/valerio/gonesis/gonesis/snapshot"
)

const (
	resetHandler = 0x8000
	nmiHandler   = 0x806A
	irqHandler   = 0x8072
)

// goldenProgram waits two vblanks, loads a palette, fills the top eight
// tile rows with tiles 0-3, starts pulse 1 and turns on rendering and NMI.
// The NMI handler bumps the pulse period every frame.
var goldenProgram = []uint8{
	0x78,             // 8000 SEI
	0xA2, 0xFF,       // 8001 LDX #$FF
	0x9A,             // 8003 TXS
	0x2C, 0x02, 0x20, // 8004 BIT $2002
	0x10, 0xFB,       // 8007 BPL $8004
	0x2C, 0x02, 0x20, // 8009 BIT $2002
	0x10, 0xFB,       // 800C BPL $8009

	0xA9, 0x3F, 0x8D, 0x06, 0x20, // 800E PPUADDR = $3F00
	0xA9, 0x00, 0x8D, 0x06, 0x20,
	0xA9, 0x0F, 0x8D, 0x07, 0x20, // 8018 palette 0F 21 16 30
	0xA9, 0x21, 0x8D, 0x07, 0x20,
	0xA9, 0x16, 0x8D, 0x07, 0x20,
	0xA9, 0x30, 0x8D, 0x07, 0x20,

	0xA9, 0x20, 0x8D, 0x06, 0x20, // 802C PPUADDR = $2000
	0xA9, 0x00, 0x8D, 0x06, 0x20,
	0xA2, 0x00,       // 8036 LDX #0
	0x8A,             // 8038 TXA
	0x29, 0x03,       // 8039 AND #3
	0x8D, 0x07, 0x20, // 803B STA $2007
	0xE8,             // 803E INX
	0xD0, 0xF7,       // 803F BNE $8038

	0xA9, 0x00, 0x8D, 0x05, 0x20, // 8041 PPUSCROLL = 0, 0
	0x8D, 0x05, 0x20,

	0xA9, 0x01, 0x8D, 0x15, 0x40, // 8049 enable pulse 1
	0xA9, 0xBF, 0x8D, 0x00, 0x40, // 804E duty 2, halt, volume 15
	0xA9, 0xFD, 0x8D, 0x02, 0x40, // 8053 period low
	0xA9, 0x00, 0x8D, 0x03, 0x40, // 8058 period high, length

	0xA9, 0x80, 0x8D, 0x00, 0x20, // 805D NMI on
	0xA9, 0x1E, 0x8D, 0x01, 0x20, // 8062 background and sprites on
	0x4C, 0x67, 0x80,             // 8067 JMP $8067

	0xE6, 0x10,       // 806A INC $10
	0xA5, 0x10,       // 806C LDA $10
	0x8D, 0x02, 0x40, // 806E STA $4002
	0x40,             // 8071 RTI
	0x40,             // 8072 RTI
}

var goldenPalette = [4]uint8{0x0F, 0x21, 0x16, 0x30}

// buildROM assembles a mapper 0 image with one PRG bank and one CHR bank
// around goldenProgram. Tile n of the CHR bank is a solid block of color n.
func buildROM(t *testing.T, tweak func(chr []byte)) *cartridge.Cartridge {
	t.Helper()
	require.Equal(t, uint8(0xE6), goldenProgram[nmiHandler-resetHandler])
	require.Equal(t, uint8(0x40), goldenProgram[irqHandler-resetHandler])

	chr := make([]byte, 8*1024)
	for tile := 1; tile < 4; tile++ {
		for row := range 8 {
			if tile&1 != 0 {
				chr[tile*16+row] = 0xFF
			}
			if tile&2 != 0 {
				chr[tile*16+8+row] = 0xFF
			}
		}
	}
	if tweak != nil {
		tweak(chr)
	}

	return assemble(t, goldenProgram, [3]uint16{nmiHandler, resetHandler, irqHandler}, chr)
}

// assemble places program at 0x8000 and the NMI, reset and IRQ vectors at
// the top of a 16KB PRG bank.
func assemble(t *testing.T, program []uint8, vectors [3]uint16, chr []byte) *cartridge.Cartridge {
	t.Helper()

	prg := make([]byte, 16*1024)
	copy(prg, program)
	for i, vector := range vectors {
		prg[0x3FFA+2*i] = uint8(vector)
		prg[0x3FFB+2*i] = uint8(vector >> 8)
	}

	image := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	image = append(image, prg...)
	image = append(image, chr...)

	cart, err := cartridge.Parse(image)
	require.NoError(t, err)
	return cart
}

func newGoldenConsole(t *testing.T) *Console {
	t.Helper()
	c, err := NewConsole(buildROM(t, nil), Config{Seed: 42})
	require.NoError(t, err)
	return c
}

func runFrames(c *Console, n int) {
	for range n {
		c.RunUntilFrame()
	}
}

type sampleRecorder struct {
	samples []float64
}

func (r *sampleRecorder) PushSample(sample float64) {
	r.samples = append(r.samples, sample)
}

func expectedGoldenFrame() []uint8 {
	pixels := make([]uint8, ppu.ScreenWidth*ppu.ScreenHeight)
	for y := range ppu.ScreenHeight {
		for x := range ppu.ScreenWidth {
			color := goldenPalette[0]
			if y < 64 {
				color = goldenPalette[(x/8)%4]
			}
			pixels[y*ppu.ScreenWidth+x] = color
		}
	}
	return pixels
}

// audioProgram starts pulse 1 straight out of reset (duty 2, constant
// volume 15, period $0FD) and spins with interrupts masked, so every
// register write lands on a known CPU cycle.
var audioProgram = []uint8{
	0xA9, 0x01, 0x8D, 0x15, 0x40, // 8000 enable pulse 1, write on cycle 13
	0xA9, 0xBF, 0x8D, 0x00, 0x40, // 8005 duty 2 and volume 15, cycle 19
	0xA9, 0xFD, 0x8D, 0x02, 0x40, // 800A period low, cycle 25
	0xA9, 0x00, 0x8D, 0x03, 0x40, // 800F period high, cycle 31
	0x4C, 0x14, 0x80,             // 8014 JMP $8014
}

// goldenAudio is every goldenAudioStride-th sample pushed after reset by
// audioProgram: the high pass filter settling on the idle triangle level,
// then the filtered pulse wave.
const goldenAudioStride = 500

var goldenAudio = []float64{
	-0.25265805755111276, -0.15962482425277352, -0.10084809787858925, 0.032762863027261946,
	0.02069898859919149, -0.084827802033537431, -0.053592682230659633, 0.065495469421136793,
	0.041378861600671085, -0.074682708933901776, -0.047183194566765174, 0.072508174645543266,
	0.045809362847423984, -0.074890770341233204, -0.04731464402814789, 0.075476815691280508,
	0.047684896957787853, -0.076802704911353381, -0.04852256996051782, 0.07785637674655832,
	0.04918826090718631, -0.07904213579178615, -0.049937402181505053, 0.080198951323473294,
	0.050668257463652805, -0.081391450526739295, -0.051421657048799335, 0.082594194769971124,
	0.052181529266244753, -0.083817700349861246, -0.05295451812341892, 0.085058137571755926,
	0.053738204088001701, -0.086317408368343757, -0.054533788766916225, 0.08759513242784317,
	0.055341031886007669, -0.088891846001135033, -0.056160272238953646, 0.090207725185550647,
	0.056991621080887345, -0.091543095608539321, -0.057835284137383397, 0.092898229073671901,
	0.058691433129057835, -0.094273424815847717, -0.059560257107147296, 0.095668977156443596,
	0.060441942018613748, -0.097085188503059, -0.061336678919147652, 0.098522364251359601,
	0.062244660752248021, -0.099980814912008054, -0.063166083692975994, 0.10146085535507843,
	0.06410114667059108, -0.102962805206403, -0.065050051618954441, 0.10448698878553075,
	0.066013003437334378, -0.10603373522807244, -0.066990210067700173, -0.042323211902908747,
	0.067981882526434168, 0.04294973275672978, -0.068988234955162819, -0.043585528152012637,
	0.070009484664900312, 0.044230735381954878, -0.071045852183806574, -0.044885493772287038,
	0.072097561304480695, 0.045549944711156171, -0.073164839132415671, -0.04622423167973444,
	0.074247916134986713, 0.046908500283171534, -0.075347026191241284, -0.047602898282050249,
	0.076462406642392178, 0.048307575624287502, -0.07759429834307327, -0.049022684477516343,
	0.078742945713348556, 0.049748379261944586, -0.079908596791491815, -0.050484816683700001,
}

const goldenAudioSum = -200.8417682171797

func TestResetStartsAtVector(t *testing.T) {
	c := newGoldenConsole(t)
	assert.True(t, strings.HasPrefix(c.Trace(), "8000  SEI"), c.Trace())
	assert.Equal(t, uint64(7), c.Cycles())
}

func TestGoldenFrame(t *testing.T) {
	c := newGoldenConsole(t)
	runFrames(c, 6)

	want := expectedGoldenFrame()
	fb := c.FrameBuffer()
	for _, y := range []int{0, 7, 63, 64, 239} {
		for x := range ppu.ScreenWidth {
			require.Equal(t, want[y*ppu.ScreenWidth+x], fb.Index(x, y), "x=%d y=%d", x, y)
		}
	}
	assert.Equal(t, xxhash.Sum64(want), fb.Checksum())

	// Nothing changes on screen once the program is idling.
	runFrames(c, 2)
	assert.Equal(t, xxhash.Sum64(want), c.FrameBuffer().Checksum())
}

func TestGoldenRunIsDeterministic(t *testing.T) {
	run := func() (uint64, []float64) {
		c := newGoldenConsole(t)
		rec := &sampleRecorder{}
		c.SetAudioSink(rec)
		runFrames(c, 8)
		return c.FrameBuffer().Checksum(), rec.samples
	}

	checksumA, samplesA := run()
	checksumB, samplesB := run()

	assert.Equal(t, checksumA, checksumB)
	require.Equal(t, len(samplesA), len(samplesB))
	assert.Equal(t, samplesA, samplesB)

	distinct := map[float64]bool{}
	for _, s := range samplesA {
		distinct[s] = true
	}
	assert.Greater(t, len(distinct), 2, "pulse channel should be audible")
}

func TestGoldenAudio(t *testing.T) {
	c, err := NewConsole(assemble(t, audioProgram, [3]uint16{0x8014, 0x8000, 0x8014}, make([]byte, 8*1024)), Config{})
	require.NoError(t, err)

	rec := &sampleRecorder{}
	c.SetAudioSink(rec)
	n := goldenAudioStride * len(goldenAudio)
	for len(rec.samples) < n {
		c.Step()
	}

	for i, want := range goldenAudio {
		assert.InDelta(t, want, rec.samples[i*goldenAudioStride], 1e-9, "sample %d", i*goldenAudioStride)
	}

	var sum float64
	for _, s := range rec.samples[:n] {
		sum += s
	}
	assert.InDelta(t, goldenAudioSum, sum, 1e-6)
}

func TestStepReportsSamplesAndFrames(t *testing.T) {
	c := newGoldenConsole(t)

	cycles, samples, frames := 0, 0, 0
	for frames < 3 {
		r := c.Step()
		require.Positive(t, r.Cycles)
		cycles += r.Cycles
		samples += r.Samples
		if r.FrameComplete {
			frames++
		}
	}

	assert.Equal(t, uint64(3), c.Frames())
	assert.InDelta(t, cycles/2, samples, 1, "one sample every other CPU cycle")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := newGoldenConsole(t)
	runFrames(c, 4)

	var snap bytes.Buffer
	require.NoError(t, c.SaveState(&snap))

	first := &sampleRecorder{}
	c.SetAudioSink(first)
	runFrames(c, 3)
	wantChecksum, wantCycles := c.FrameBuffer().Checksum(), c.Cycles()

	t.Run("same console", func(t *testing.T) {
		second := &sampleRecorder{}
		c.SetAudioSink(second)
		require.NoError(t, c.LoadState(bytes.NewReader(snap.Bytes())))
		runFrames(c, 3)

		assert.Equal(t, wantChecksum, c.FrameBuffer().Checksum())
		assert.Equal(t, wantCycles, c.Cycles())
		assert.Equal(t, first.samples, second.samples)
	})

	t.Run("fresh console", func(t *testing.T) {
		other, err := NewConsole(buildROM(t, nil), Config{Seed: 7})
		require.NoError(t, err)
		require.NoError(t, other.LoadState(bytes.NewReader(snap.Bytes())))
		runFrames(other, 3)

		assert.Equal(t, wantChecksum, other.FrameBuffer().Checksum())
		assert.Equal(t, wantCycles, other.Cycles())
	})
}

func TestLoadStateKeepsChannelMutes(t *testing.T) {
	c := newGoldenConsole(t)
	runFrames(c, 2)

	var snap bytes.Buffer
	require.NoError(t, c.SaveState(&snap))

	c.APU().SoloChannel(apu.Pulse1)
	want := c.APU().ChannelStatus()
	require.NoError(t, c.LoadState(bytes.NewReader(snap.Bytes())))

	assert.Equal(t, want, c.APU().ChannelStatus())
}

func TestLoadStateFailureKeepsState(t *testing.T) {
	c := newGoldenConsole(t)
	runFrames(c, 4)

	var valid bytes.Buffer
	require.NoError(t, c.SaveState(&valid))

	otherROM, err := NewConsole(buildROM(t, func(chr []byte) { chr[0] = 0x81 }), Config{})
	require.NoError(t, err)
	var foreign bytes.Buffer
	require.NoError(t, otherROM.SaveState(&foreign))

	badFrame := c.m.state()
	badFrame.ROMHash = c.romHash
	badFrame.PPU.Frame = badFrame.PPU.Frame[:16]
	var incompatible bytes.Buffer
	require.NoError(t, snapshot.Write(&incompatible, badFrame))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", valid.Bytes()[:valid.Len()/2]},
		{"different cartridge", foreign.Bytes()},
		{"incompatible state", incompatible.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := c.m
			want := c.m.state()

			err := c.LoadState(bytes.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, snapshot.IsDecodeError(err), "got %T", err)

			assert.Same(t, before, c.m)
			assert.Equal(t, want, c.m.state())
		})
	}
}

func TestDebugLines(t *testing.T) {
	c := newGoldenConsole(t)
	runFrames(c, 2)
	c.APU().MuteChannel(apu.Noise, true)

	lines := c.DebugLines()
	require.Len(t, lines, 4)
	assert.Equal(t, c.Trace(), lines[0])
	assert.Contains(t, lines[1], "frame 2")
	assert.Contains(t, lines[3], "noise:off")
	assert.Contains(t, lines[3], "pulse1:on")
}
