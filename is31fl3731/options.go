package is31fl3731

import "context"

// Autoplay configures autoplay mode: play frames starting at start for loops
// loops (0 = endless), holding each frame for delay units of 11ms (0 = 64).
type Autoplay struct {
	Start uint8
	Loops uint8
	Delay uint8
}

func (a Autoplay) registers() (uint8, uint8, error) {
	if a.Start >= FrameBanks {
		return 0, 0, invalidLocation(a.Start)
	}
	if a.Loops > 7 {
		return 0, 0, invalidLocation(a.Loops)
	}
	if a.Delay > 63 {
		return 0, 0, invalidLocation(a.Delay)
	}
	return a.Loops<<4 | a.Start, a.Delay, nil
}

// SetAutoplay writes both autoplay control registers. It does not change the
// mode; follow it with SetMode(ctx, AutoplayMode).
func (d *Device) SetAutoplay(ctx context.Context, a Autoplay) error {
	r1, r2, err := a.registers()
	if err != nil {
		return err
	}
	if err := d.WriteRegister(ctx, ConfigBank, RegAutoplay1, r1); err != nil {
		return err
	}
	return d.WriteRegister(ctx, ConfigBank, RegAutoplay2, r2)
}

// SetBlinkPeriod enables or disables blinking of LEDs whose blink bit is set and
// sets the period in units of 0.27s (0-7).
func (d *Device) SetBlinkPeriod(ctx context.Context, enabled bool, period uint8) error {
	if period > 7 {
		return invalidLocation(period)
	}
	return d.WriteRegister(ctx, ConfigBank, RegDisplayOpt, boolByte(enabled)<<3|period)
}

// Breath holds the breathing fade times, each an exponent 0-7 of 26ms steps.
type Breath struct {
	Enabled    bool
	FadeIn     uint8
	FadeOut    uint8
	Extinguish uint8
}

// SetBreath writes both breath control registers.
func (d *Device) SetBreath(ctx context.Context, b Breath) error {
	for _, v := range []uint8{b.FadeIn, b.FadeOut, b.Extinguish} {
		if v > 7 {
			return invalidLocation(v)
		}
	}
	if err := d.WriteRegister(ctx, ConfigBank, RegBreath1, b.FadeOut<<4|b.FadeIn); err != nil {
		return err
	}
	return d.WriteRegister(ctx, ConfigBank, RegBreath2, boolByte(b.Enabled)<<4|b.Extinguish)
}

// SetAudioGain configures the audio AGC: agc enables automatic gain control and
// gain (0-7) selects 0dB to 21dB in 3dB steps.
func (d *Device) SetAudioGain(ctx context.Context, agc bool, gain uint8) error {
	if gain > 7 {
		return invalidLocation(gain)
	}
	return d.WriteRegister(ctx, ConfigBank, RegGain, boolByte(agc)<<3|gain)
}
