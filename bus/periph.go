package bus

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

// Periph issues writes on a periph.io I²C bus. Each Write blocks until the
// transaction completes.
type Periph struct {
	bus i2c.Bus
}

var _ is31fl3731.Transport = (*Periph)(nil)

func NewPeriph(b i2c.Bus) *Periph {
	return &Periph{bus: b}
}

func (p *Periph) Write(ctx context.Context, addr uint8, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.bus.Tx(uint16(addr), data, nil)
}

func (p *Periph) String() string { return p.bus.String() }

// Open initialises the host drivers and opens the named I²C bus ("" for the
// first one found). A non-zero speed is applied to the bus.
func Open(name string, speed physic.Frequency) (*Periph, i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("bus: host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("bus: open %q: %w", name, err)
	}
	if speed > 0 {
		if err := b.SetSpeed(speed); err != nil {
			_ = b.Close()
			return nil, nil, fmt.Errorf("bus: set speed %s: %w", speed, err)
		}
	}
	return NewPeriph(b), b, nil
}
