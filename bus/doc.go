// Package bus provides is31fl3731.Transport implementations: adapters over
// periph.io and TinyGo I²C buses, a worker-backed Queue for callers that need to
// bound each transaction with a context, a zerolog Trace decorator, and Sim, an
// in-memory IS31FL3731 register file.
package bus
