package is31fl3731

// Bank selection.
const (
	BankAddress = 0xFD
	ConfigBank  = 0x0B
)

// Configuration bank registers.
const (
	RegMode       = 0x00
	RegFrame      = 0x01
	RegAutoplay1  = 0x02
	RegAutoplay2  = 0x03
	RegDisplayOpt = 0x05
	RegAudioSync  = 0x06
	RegBreath1    = 0x08
	RegBreath2    = 0x09
	RegShutdown   = 0x0A
	RegGain       = 0x0B
	RegADC        = 0x0C
)

// Frame bank register offsets.
const (
	EnableOffset = 0x00
	BlinkOffset  = 0x12
	ColorOffset  = 0x24
)

const (
	// NumLEDs is the number of brightness registers in a frame.
	NumLEDs = 144
	// MaxFrame is the highest index accepted by the frame register.
	MaxFrame = 8
	// FrameBanks is the number of frame banks initialised by Setup.
	FrameBanks = 8

	// bitmapRegisters is the size of the enable and blink bitmaps.
	bitmapRegisters = 18
	// rowRegisters is the largest run of colour registers written by Fill in one
	// transaction.
	rowRegisters = 24
	rows         = NumLEDs / rowRegisters
)

// Mode is the display mode held in the mode register.
type Mode uint8

const (
	PictureMode   Mode = 0x00
	AutoplayMode  Mode = 0x08
	AudioPlayMode Mode = 0x18
)

func (m Mode) String() string {
	switch m {
	case PictureMode:
		return "picture"
	case AutoplayMode:
		return "autoplay"
	case AudioPlayMode:
		return "audioplay"
	}
	return "unknown"
}

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{PictureMode, AutoplayMode, AudioPlayMode} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, ErrUnknownMode
}

// Blink selects what Fill does with the per-LED blink bitmap.
type Blink uint8

const (
	// BlinkUnchanged leaves the blink registers alone.
	BlinkUnchanged Blink = iota
	BlinkOff
	BlinkOn
)

func (b Blink) String() string {
	switch b {
	case BlinkOff:
		return "off"
	case BlinkOn:
		return "on"
	}
	return "unchanged"
}

// ParseBlink returns the Blink named s. The empty string is BlinkUnchanged.
func ParseBlink(s string) (Blink, error) {
	switch s {
	case "", "unchanged":
		return BlinkUnchanged, nil
	case "off":
		return BlinkOff, nil
	case "on":
		return BlinkOn, nil
	}
	return BlinkUnchanged, ErrUnknownBlink
}
