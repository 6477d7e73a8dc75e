// internal/codec/fan.go
package codec

// Fan is the logical fan speed.
type Fan uint8

const (
	FanAuto Fan = iota
	FanLow
	FanMedium
	FanHigh
)

// FanFallback is returned for raw codes that are not in a table.
const FanFallback = FanAuto

func (f Fan) String() string {
	switch f {
	case FanAuto:
		return "auto"
	case FanLow:
		return "low"
	case FanMedium:
		return "medium"
	case FanHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseFan maps a fan name to a Fan.
func ParseFan(s string) (Fan, bool) {
	switch s {
	case "auto":
		return FanAuto, true
	case "low":
		return FanLow, true
	case "medium":
		return FanMedium, true
	case "high":
		return FanHigh, true
	}
	return 0, false
}

// FanCode binds one logical fan speed to its wire code.
type FanCode struct {
	Fan  Fan
	Code uint8
}

// FanTable is a fan speed map for one adapter family.
//
// In bitmask tables every non-auto entry is a single bit. When a raw value
// has several bits set, the first matching entry in table order wins, so
// entries are kept sorted by ascending code.
type FanTable struct {
	Entries []FanCode
	Bitmask bool
}

// VRFFanBits is the bit-coded fan map of the VRF Light gateway.
// Auto is reported either as 0x00 or as 0x20.
var VRFFanBits = FanTable{
	Bitmask: true,
	Entries: []FanCode{
		{Fan: FanAuto, Code: 0x00},
		{Fan: FanHigh, Code: 0x01},
		{Fan: FanMedium, Code: 0x02},
		{Fan: FanLow, Code: 0x04},
		{Fan: FanAuto, Code: 0x20},
	},
}

// EnumeratedFans is the 0..3 fan map of the Solo and Pro gateways.
var EnumeratedFans = FanTable{
	Entries: []FanCode{
		{Fan: FanAuto, Code: 0x00},
		{Fan: FanLow, Code: 0x01},
		{Fan: FanMedium, Code: 0x02},
		{Fan: FanHigh, Code: 0x03},
	},
}

// Decode maps a raw fan code to a Fan. Unknown codes return FanFallback
// and ok=false.
func (t FanTable) Decode(raw uint8) (f Fan, ok bool) {
	for _, e := range t.Entries {
		if e.Code == raw {
			return e.Fan, true
		}
	}
	if !t.Bitmask || raw == 0 {
		return FanFallback, false
	}
	for _, e := range t.Entries {
		if e.Code != 0 && raw&e.Code != 0 {
			return e.Fan, true
		}
	}
	return FanFallback, false
}

// Encode maps a Fan to the first code listed for it.
func (t FanTable) Encode(f Fan) (code uint8, ok bool) {
	for _, e := range t.Entries {
		if e.Fan == f {
			return e.Code, true
		}
	}
	return 0, false
}

// Fans lists the distinct fan speeds of the table.
func (t FanTable) Fans() []Fan {
	seen := make(map[Fan]bool, len(t.Entries))
	out := make([]Fan, 0, len(t.Entries))
	for _, e := range t.Entries {
		if seen[e.Fan] {
			continue
		}
		seen[e.Fan] = true
		out = append(out, e.Fan)
	}
	return out
}
