// internal/codec/packed.go
package codec

// Fan speed and swing share one register on some gateways:
//
//	bits 15..8  swing
//	bits  7..0  fan
//
// Changing one half requires a read-modify-write of the register.

// PackFanSwing builds the shared register from its two halves.
func PackFanSwing(fan, swing uint8) uint16 {
	return uint16(swing)<<8 | uint16(fan)
}

// FanOf returns the fan half of a shared register.
func FanOf(reg uint16) uint8 {
	return uint8(reg & 0xFF)
}

// SwingOf returns the swing half of a shared register.
func SwingOf(reg uint16) uint8 {
	return uint8(reg >> 8)
}

// WithFan replaces the fan half and keeps the swing half.
func WithFan(reg uint16, fan uint8) uint16 {
	return reg&0xFF00 | uint16(fan)
}

// WithSwing replaces the swing half and keeps the fan half.
func WithSwing(reg uint16, swing uint8) uint16 {
	return uint16(swing)<<8 | reg&0x00FF
}
