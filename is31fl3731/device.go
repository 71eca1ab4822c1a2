package is31fl3731

import "context"

// Default 7-bit addresses. Most boards strap AD to GND.
const (
	AddressDefault = 0x74
	AddressAlt     = 0x75
)

// Device is a handle on one IS31FL3731. It is not safe for concurrent use.
type Device struct {
	bus     Transport
	address uint8
	frame   uint8

	// Fixed buffers to avoid per-call heap allocations.
	w    [2]byte
	row  [1 + rowRegisters]byte
	bulk [1 + NumLEDs]byte
}

// New returns a Device talking to addr over bus. Nothing is written until the
// first operation; call Setup before drawing.
func New(bus Transport, addr uint8) *Device {
	return &Device{bus: bus, address: addr}
}

// Address returns the 7-bit bus address.
func (d *Device) Address() uint8 { return d.address }

// SetAddress changes the bus address. It should be called before Setup.
func (d *Device) SetAddress(addr uint8) { d.address = addr }

// Frame returns the frame last selected with SetFrame.
func (d *Device) Frame() uint8 { return d.frame }

// SelectBank points subsequent register writes at bank.
func (d *Device) SelectBank(ctx context.Context, bank uint8) error {
	d.w[0], d.w[1] = BankAddress, bank
	return d.bus.Write(ctx, d.address, d.w[:])
}

// WriteRegister selects bank and writes value to reg within it.
func (d *Device) WriteRegister(ctx context.Context, bank, reg, value uint8) error {
	if err := d.SelectBank(ctx, bank); err != nil {
		return err
	}
	d.w[0], d.w[1] = reg, value
	return d.bus.Write(ctx, d.address, d.w[:])
}

// SetFrame selects the frame that is displayed and that SetPixel and
// SetAllPixels write to. The cached frame only changes once the chip has
// accepted the write.
func (d *Device) SetFrame(ctx context.Context, frame uint8) error {
	if frame > MaxFrame {
		return invalidLocation(frame)
	}
	if err := d.WriteRegister(ctx, ConfigBank, RegFrame, frame); err != nil {
		return err
	}
	d.frame = frame
	return nil
}

// SetPixel writes the brightness of LED led (0-143) in the current frame.
func (d *Device) SetPixel(ctx context.Context, led, brightness uint8) error {
	if led >= NumLEDs {
		return invalidLocation(led)
	}
	return d.WriteRegister(ctx, d.frame, ColorOffset+led, brightness)
}

// SetAllPixels writes all 144 brightness registers of the current frame in a
// single transaction.
func (d *Device) SetAllPixels(ctx context.Context, buf *[NumLEDs]byte) error {
	if err := d.SelectBank(ctx, d.frame); err != nil {
		return err
	}
	d.bulk[0] = ColorOffset
	copy(d.bulk[1:], buf[:])
	return d.bus.Write(ctx, d.address, d.bulk[:])
}

// Fill sets every LED of frame to brightness, six rows of 24 registers at a
// time, then rewrites the blink bitmap unless blink is BlinkUnchanged.
func (d *Device) Fill(ctx context.Context, brightness uint8, blink Blink, frame uint8) error {
	if frame > MaxFrame {
		return invalidLocation(frame)
	}
	if err := d.SelectBank(ctx, frame); err != nil {
		return err
	}
	for i := 1; i < len(d.row); i++ {
		d.row[i] = brightness
	}
	for r := uint8(0); r < rows; r++ {
		d.row[0] = ColorOffset + r*rowRegisters
		if err := d.bus.Write(ctx, d.address, d.row[:]); err != nil {
			return err
		}
	}
	if blink == BlinkUnchanged {
		return nil
	}
	var bits uint8
	if blink == BlinkOn {
		bits = 0xFF
	}
	return d.writeBitmap(ctx, frame, BlinkOffset, bits)
}

func (d *Device) writeBitmap(ctx context.Context, frame, offset, bits uint8) error {
	for col := uint8(0); col < bitmapRegisters; col++ {
		if err := d.WriteRegister(ctx, frame, offset+col, bits); err != nil {
			return err
		}
	}
	return nil
}

// Setup brings the chip up: shutdown, settle, picture mode, frame 0, every frame
// bank cleared with blink off and all LEDs enabled, audio sync off, wake. A
// failure part way leaves the chip in an unknown state; run Setup again from the
// start rather than resuming.
func (d *Device) Setup(ctx context.Context, delay Delayer) error {
	if err := d.SetSleep(ctx, true); err != nil {
		return err
	}
	delay.Delay(settleTime)
	if err := d.SetMode(ctx, PictureMode); err != nil {
		return err
	}
	if err := d.SetFrame(ctx, 0); err != nil {
		return err
	}
	for f := uint8(0); f < FrameBanks; f++ {
		if err := d.Fill(ctx, 0, BlinkOff, f); err != nil {
			return err
		}
		if err := d.writeBitmap(ctx, f, EnableOffset, 0xFF); err != nil {
			return err
		}
	}
	if err := d.SetAudioSync(ctx, false); err != nil {
		return err
	}
	return d.SetSleep(ctx, false)
}

// Reset pulses software shutdown. Mode, frames and enables are left as they are.
func (d *Device) Reset(ctx context.Context, delay Delayer) error {
	if err := d.SetSleep(ctx, true); err != nil {
		return err
	}
	delay.Delay(settleTime)
	return d.SetSleep(ctx, false)
}

func (d *Device) SetMode(ctx context.Context, mode Mode) error {
	return d.WriteRegister(ctx, ConfigBank, RegMode, uint8(mode))
}

func (d *Device) SetAudioSync(ctx context.Context, enabled bool) error {
	return d.WriteRegister(ctx, ConfigBank, RegAudioSync, boolByte(enabled))
}

// SetSleep enters (true) or leaves (false) software shutdown.
func (d *Device) SetSleep(ctx context.Context, asleep bool) error {
	return d.WriteRegister(ctx, ConfigBank, RegShutdown, boolByte(!asleep))
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
