package bus

import (
	"context"

	"tinygo.org/x/drivers"

	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

// TinyGo issues writes on a TinyGo I²C bus such as machine.I2C0.
type TinyGo struct {
	bus drivers.I2C
}

var _ is31fl3731.Transport = (*TinyGo)(nil)

func NewTinyGo(b drivers.I2C) *TinyGo {
	return &TinyGo{bus: b}
}

func (t *TinyGo) Write(ctx context.Context, addr uint8, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.bus.Tx(uint16(addr), data, nil)
}
