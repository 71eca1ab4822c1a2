package is31fl3731

import (
	"context"
	"time"
)

// Transport issues one I²C write transaction to a 7-bit address. Implementations
// must not retain data after Write returns.
type Transport interface {
	Write(ctx context.Context, addr uint8, data []byte) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, addr uint8, data []byte) error

func (f TransportFunc) Write(ctx context.Context, addr uint8, data []byte) error {
	return f(ctx, addr, data)
}

// Delayer pauses the caller. It is only used during Setup and Reset.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a function to Delayer.
type DelayFunc func(d time.Duration)

func (f DelayFunc) Delay(d time.Duration) { f(d) }

// Sleep is a Delayer backed by time.Sleep.
var Sleep Delayer = DelayFunc(time.Sleep)

// settleTime is how long the chip is held in shutdown during Setup and Reset.
const settleTime = 10 * time.Millisecond
