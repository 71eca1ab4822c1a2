package bus_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	. "github.com/coreman2200/funtimes-ledmatrix/bus"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

var noDelay = is31fl3731.DelayFunc(func(time.Duration) {})

func TestPeriphWrite(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x75, W: []byte{0xFD, 0x0B}}},
		DontPanic: true,
	}
	p := NewPeriph(pb)
	require.NoError(t, p.Write(context.Background(), 0x75, []byte{0xFD, 0x0B}))
	require.NoError(t, pb.Close())
}

func TestPeriphCancelled(t *testing.T) {
	rec := &i2ctest.Record{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewPeriph(rec).Write(ctx, 0x74, []byte{1, 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.Ops)
}

// tinyBus is a stand-in for machine.I2C.
type tinyBus struct {
	addr uint16
	w    []byte
}

func (b *tinyBus) Tx(addr uint16, w, r []byte) error {
	b.addr, b.w = addr, append([]byte(nil), w...)
	return nil
}

func (b *tinyBus) ReadRegister(addr uint8, r uint8, buf []byte) error  { return nil }
func (b *tinyBus) WriteRegister(addr uint8, r uint8, buf []byte) error { return nil }

func TestTinyGoWrite(t *testing.T) {
	b := &tinyBus{}
	require.NoError(t, NewTinyGo(b).Write(context.Background(), 0x74, []byte{0x24, 9}))
	assert.Equal(t, uint16(0x74), b.addr)
	assert.Equal(t, []byte{0x24, 9}, b.w)
}

func TestQueueForwardsInOrder(t *testing.T) {
	sim := NewSim(is31fl3731.AddressDefault)
	q := NewQueue(sim)
	defer q.Close()

	d := is31fl3731.New(q, is31fl3731.AddressDefault)
	ctx := context.Background()
	require.NoError(t, d.Setup(ctx, noDelay))
	require.NoError(t, d.SetPixel(ctx, 10, 0x80))
	assert.Equal(t, 644, sim.Writes())
	assert.Equal(t, uint8(0x80), sim.Frame(0)[10])
}

// gate blocks each write until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
	mu      sync.Mutex
	done    int
}

func (g *gate) Write(ctx context.Context, addr uint8, data []byte) error {
	g.entered <- struct{}{}
	<-g.release
	g.mu.Lock()
	g.done++
	g.mu.Unlock()
	return ctx.Err()
}

func TestQueueAcceptedWriteCompletes(t *testing.T) {
	g := &gate{entered: make(chan struct{}), release: make(chan struct{})}
	q := NewQueue(g)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- q.Write(ctx, 0x74, []byte{1, 2}) }()
	<-g.entered
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(g.release)
	require.NoError(t, q.Close())
	g.mu.Lock()
	defer g.mu.Unlock()
	assert.Equal(t, 1, g.done)
}

func TestQueueCancelledBeforeAccept(t *testing.T) {
	sim := NewSim(0x74)
	q := NewQueue(sim)
	defer q.Close()
	// An idle worker is ready to accept; a cancelled write must still not
	// reach the bus.
	require.NoError(t, q.Write(context.Background(), 0x74, []byte{0xFD, 0}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 200; i++ {
		assert.ErrorIs(t, q.Write(ctx, 0x74, []byte{0xFD, 1}), context.Canceled)
	}
	assert.Equal(t, 1, sim.Writes())
	assert.Equal(t, uint8(0), sim.Bank())
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(NewSim(0x74))
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Write(context.Background(), 0x74, []byte{0xFD, 0}), ErrClosed)
}

func TestQueuePropagatesError(t *testing.T) {
	boom := errors.New("arbitration lost")
	q := NewQueue(is31fl3731.TransportFunc(func(context.Context, uint8, []byte) error { return boom }))
	defer q.Close()
	assert.Same(t, boom, q.Write(context.Background(), 0x74, []byte{1, 2}))
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	sim := NewSim(0x74)
	tr := NewTrace(sim, log)

	require.NoError(t, tr.Write(context.Background(), 0x74, []byte{0xFD, 0x0B}))
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"data":"fd0b"`)

	buf.Reset()
	assert.ErrorIs(t, tr.Write(context.Background(), 0x20, []byte{0xFD, 0x0B}), ErrNoDevice)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"addr":32`)
}

func TestSimAfterSetup(t *testing.T) {
	sim := NewSim(is31fl3731.AddressDefault)
	d := is31fl3731.New(sim, is31fl3731.AddressDefault)
	ctx := context.Background()
	require.NoError(t, d.Fill(ctx, 0x55, is31fl3731.BlinkOn, 3))
	require.NoError(t, d.Setup(ctx, noDelay))

	assert.False(t, sim.Shutdown())
	assert.Equal(t, uint8(0), sim.Displayed())
	assert.Equal(t, uint8(is31fl3731.PictureMode), sim.Register(is31fl3731.ConfigBank, is31fl3731.RegMode))
	assert.Equal(t, uint8(0), sim.Register(is31fl3731.ConfigBank, is31fl3731.RegAudioSync))
	for f := uint8(0); f < is31fl3731.FrameBanks; f++ {
		assert.Equal(t, [is31fl3731.NumLEDs]byte{}, sim.Frame(f), "frame %d", f)
		for led := uint8(0); led < is31fl3731.NumLEDs; led++ {
			require.True(t, sim.Enabled(f, led))
			require.False(t, sim.Blinking(f, led))
		}
	}
	assert.Equal(t, uint8(is31fl3731.ConfigBank), sim.Bank())
}

func TestSimVisible(t *testing.T) {
	sim := NewSim(0x74)
	d := is31fl3731.New(sim, 0x74)
	ctx := context.Background()
	require.NoError(t, d.Setup(ctx, noDelay))

	var buf [is31fl3731.NumLEDs]byte
	for i := range buf {
		buf[i] = 200
	}
	require.NoError(t, d.SetFrame(ctx, 2))
	require.NoError(t, d.SetAllPixels(ctx, &buf))
	assert.Equal(t, buf, sim.Visible())

	require.NoError(t, d.WriteRegister(ctx, 2, is31fl3731.EnableOffset, 0xFE))
	v := sim.Visible()
	assert.Equal(t, byte(0), v[0])
	assert.Equal(t, byte(200), v[1])

	require.NoError(t, d.SetSleep(ctx, true))
	assert.Equal(t, [is31fl3731.NumLEDs]byte{}, sim.Visible())
}

func TestSimRejects(t *testing.T) {
	sim := NewSim(0x74)
	ctx := context.Background()
	assert.ErrorIs(t, sim.Write(ctx, 0x75, []byte{0xFD, 0}), ErrNoDevice)
	assert.ErrorIs(t, sim.Write(ctx, 0x74, []byte{0xFD}), ErrBadWrite)
	assert.ErrorIs(t, sim.Write(ctx, 0x74, []byte{0xFD, 0x0C}), ErrBadWrite)
	assert.ErrorIs(t, sim.Write(ctx, 0x74, append([]byte{0xF0}, make([]byte, 32)...)), ErrBadWrite)
	assert.Zero(t, sim.Writes(), "rejected writes are not counted")
	require.NoError(t, sim.Write(ctx, 0x74, []byte{0xFD, 0x0B}))
	assert.Equal(t, 1, sim.Writes())
}
