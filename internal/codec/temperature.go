// internal/codec/temperature.go
package codec

// TempRange is an inclusive setpoint range in whole degrees Celsius.
type TempRange struct {
	Min int
	Max int
}

// DefaultTempRange is the setpoint range most indoor units accept.
var DefaultTempRange = TempRange{Min: 16, Max: 30}

// Clamp silently limits t to the range.
func (r TempRange) Clamp(t int) int {
	if t < r.Min {
		return r.Min
	}
	if t > r.Max {
		return r.Max
	}
	return t
}

// ClampTemperature limits t to r, falling back to DefaultTempRange
// when r is not usable.
func ClampTemperature(t int, r TempRange) int {
	if !r.Valid() {
		r = DefaultTempRange
	}
	return r.Clamp(t)
}

// Valid reports whether the range is usable.
func (r TempRange) Valid() bool {
	return r.Min > 0 && r.Max >= r.Min
}

// DecodeTempLimits decodes the gateway limits register: min<<8 | max.
func DecodeTempLimits(raw uint16) TempRange {
	return TempRange{Min: int(raw >> 8), Max: int(raw & 0xFF)}
}

// DecodeTemperature reads a signed whole-degree register.
func DecodeTemperature(raw uint16) int {
	return int(int16(raw))
}

// Special-info flags of the gateway identity block.
const (
	SpecialMasterSlave   uint16 = 0x01
	SpecialFrontRearWind uint16 = 0x04
	SpecialLeftRightWind uint16 = 0x08
)

var specialNames = []struct {
	bit  uint16
	name string
}{
	{SpecialMasterSlave, "master-slave"},
	{SpecialFrontRearWind, "front-rear wind direction"},
	{SpecialLeftRightWind, "left-right wind direction"},
}

// DecodeSpecialInfo lists the feature names set in raw, in bit order.
func DecodeSpecialInfo(raw uint16) []string {
	var out []string
	for _, s := range specialNames {
		if raw&s.bit != 0 {
			out = append(out, s.name)
		}
	}
	return out
}
