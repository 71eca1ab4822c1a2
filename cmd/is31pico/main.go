//go:build rp2040 || rp2350

// Command is31pico brings up an IS31FL3731 on i2c0 of a Pico and loops the
// test patterns.
package main

import (
	"context"
	"time"

	"machine"

	"github.com/coreman2200/funtimes-ledmatrix/board"
	"github.com/coreman2200/funtimes-ledmatrix/bus"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pattern"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

const (
	kind      = board.Matrix
	stepDelay = 40 * time.Millisecond
	retry     = 2 * time.Second
)

func main() {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	}); err != nil {
		println("configure:", err.Error())
		return
	}

	disp, err := board.Open(bus.NewTinyGo(i2c), kind, 0)
	if err != nil {
		println("open:", err.Error())
		return
	}
	dev := disp.Device()
	ctx := context.Background()
	for {
		if err := dev.Setup(ctx, is31fl3731.Sleep); err != nil {
			println("setup:", err.Error())
			time.Sleep(retry)
			continue
		}
		break
	}

	var buf [is31fl3731.NumLEDs]byte
	kinds := []pattern.Kind{pattern.IndexSweep, pattern.RowSweep, pattern.Channels}
	for i := 0; ; i++ {
		k := kinds[i%len(kinds)]
		println("pattern", string(k))
		r := pattern.NewRunner(k, kind, 64)
		for r.Step(&buf) {
			if err := dev.SetAllPixels(ctx, &buf); err != nil {
				println("write:", err.Error())
				time.Sleep(retry)
			}
			time.Sleep(stepDelay)
		}
	}
}
