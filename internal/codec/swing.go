// internal/codec/swing.go
package codec

import "fmt"

// Swing is the logical louver setting. Fixed positions 1..6 are
// reported by the gateways; position 1 is what "off" means.
type Swing uint8

const (
	SwingOn Swing = iota
	SwingOff
	SwingPosition2
	SwingPosition3
	SwingPosition4
	SwingPosition5
	SwingPosition6
)

// SwingFallback is returned for raw codes that are not known.
const SwingFallback = SwingOff

func (s Swing) String() string {
	switch s {
	case SwingOn:
		return "on"
	case SwingOff:
		return "off"
	case SwingPosition2, SwingPosition3, SwingPosition4, SwingPosition5, SwingPosition6:
		return fmt.Sprintf("position %d", uint8(s))
	default:
		return "unknown"
	}
}

// ParseSwing maps a swing name to a Swing.
func ParseSwing(s string) (Swing, bool) {
	for v := SwingOn; v <= SwingPosition6; v++ {
		if v.String() == s {
			return v, true
		}
	}
	return 0, false
}

// DecodeSwing maps a raw swing byte to a Swing.
// 0x00 sweeps, 0x01 is fixed position 1, 0x02..0x06 are fixed positions.
func DecodeSwing(raw uint8) (s Swing, ok bool) {
	if raw <= uint8(SwingPosition6) {
		return Swing(raw), true
	}
	return SwingFallback, false
}

// EncodeSwing maps a Swing to its raw byte.
func EncodeSwing(s Swing) (raw uint8, ok bool) {
	if s <= SwingPosition6 {
		return uint8(s), true
	}
	return uint8(SwingFallback), false
}
