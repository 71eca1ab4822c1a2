// Package is31fl3731 drives the ISSI IS31FL3731 144-LED charlieplexed matrix
// controller over I²C.
//
// The chip's register space is banked. Eight frame banks (plus a ninth index the
// frame register accepts) hold per-LED brightness, blink and enable registers, and a
// configuration bank holds the device-wide mode, shutdown, audio-sync and
// frame-select registers. Every register write issued by a Device is preceded by a
// bank select; the driver never relies on the chip still having the bank it last
// selected.
//
// A Device keeps a single piece of state: the frame last selected with SetFrame.
// Everything else is write-only. Nothing is retried and nothing is logged: the
// first transport failure is returned to the caller unchanged.
//
// All operations take a context.Context which is handed to the Transport at each
// bus transaction. Blocking transports (see package bus) only check it; queued
// transports wait on it. Abandoning Setup or Fill half way leaves the chip in an
// unknown state and Setup must be run again from the start.
//
// Datasheet: https://www.lumissil.com/assets/pdf/core/IS31FL3731_DS.pdf
package is31fl3731
