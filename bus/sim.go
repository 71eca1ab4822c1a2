package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

var (
	ErrNoDevice = errors.New("bus: no device at address")
	ErrBadWrite = errors.New("bus: malformed write")
)

const simBanks = is31fl3731.ConfigBank + 1

// Sim is an in-memory IS31FL3731. It decodes bank selects and auto-incremented
// register writes into a register file so the effect of a write sequence can be
// inspected or previewed without hardware. It is safe for concurrent use.
type Sim struct {
	mu     sync.Mutex
	addr   uint8
	bank   uint8
	regs   [simBanks][256]byte
	writes int
}

var _ is31fl3731.Transport = (*Sim)(nil)

// NewSim returns a simulated chip answering at addr.
func NewSim(addr uint8) *Sim {
	return &Sim{addr: addr}
}

func (s *Sim) Write(ctx context.Context, addr uint8, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if addr != s.addr {
		return fmt.Errorf("%w 0x%02x", ErrNoDevice, addr)
	}
	if len(data) < 2 {
		return ErrBadWrite
	}
	if data[0] == is31fl3731.BankAddress {
		if len(data) != 2 || data[1] >= simBanks {
			return fmt.Errorf("%w: bank select % x", ErrBadWrite, data)
		}
		s.writes++
		s.bank = data[1]
		return nil
	}
	if int(data[0])+len(data)-1 > len(s.regs[s.bank]) {
		return fmt.Errorf("%w: %d bytes at 0x%02x overrun the bank", ErrBadWrite, len(data)-1, data[0])
	}
	s.writes++
	copy(s.regs[s.bank][data[0]:], data[1:])
	return nil
}

// Writes returns the number of transactions accepted so far.
func (s *Sim) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Register returns the value last written to reg in bank.
func (s *Sim) Register(bank, reg uint8) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[bank][reg]
}

// Bank returns the currently selected bank.
func (s *Sim) Bank() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bank
}

// Displayed returns the frame held in the frame register.
func (s *Sim) Displayed() uint8 {
	return s.Register(is31fl3731.ConfigBank, is31fl3731.RegFrame)
}

// Shutdown reports whether the chip is in software shutdown.
func (s *Sim) Shutdown() bool {
	return s.Register(is31fl3731.ConfigBank, is31fl3731.RegShutdown)&1 == 0
}

// Frame returns the brightness registers of frame.
func (s *Sim) Frame(frame uint8) [is31fl3731.NumLEDs]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out [is31fl3731.NumLEDs]byte
	copy(out[:], s.regs[frame][is31fl3731.ColorOffset:])
	return out
}

// Enabled reports whether led is enabled in frame.
func (s *Sim) Enabled(frame, led uint8) bool {
	return s.bit(frame, is31fl3731.EnableOffset, led)
}

// Blinking reports whether led has its blink bit set in frame.
func (s *Sim) Blinking(frame, led uint8) bool {
	return s.bit(frame, is31fl3731.BlinkOffset, led)
}

func (s *Sim) bit(frame, offset, led uint8) bool {
	return s.Register(frame, offset+led/8)&(1<<(led%8)) != 0
}

// Visible returns what the chip is showing: the brightness of the displayed
// frame, with disabled LEDs and a shut down chip reading as zero.
func (s *Sim) Visible() [is31fl3731.NumLEDs]byte {
	frame := s.Displayed()
	if s.Shutdown() || frame >= is31fl3731.FrameBanks {
		return [is31fl3731.NumLEDs]byte{}
	}
	out := s.Frame(frame)
	for i := range out {
		if !s.Enabled(frame, uint8(i)) {
			out[i] = 0
		}
	}
	return out
}
