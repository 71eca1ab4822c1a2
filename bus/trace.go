package bus

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

// Trace logs every transaction passed to next: successes at debug level,
// failures at warn level.
type Trace struct {
	next is31fl3731.Transport
	log  zerolog.Logger
}

var _ is31fl3731.Transport = (*Trace)(nil)

func NewTrace(next is31fl3731.Transport, log zerolog.Logger) *Trace {
	return &Trace{next: next, log: log}
}

func (t *Trace) Write(ctx context.Context, addr uint8, data []byte) error {
	err := t.next.Write(ctx, addr, data)
	ev := t.log.Debug()
	if err != nil {
		ev = t.log.Warn().Err(err)
	}
	ev.Uint8("addr", addr).Int("len", len(data)).Hex("data", data).Msg("i2c write")
	return err
}
