// internal/codec/profile.go
package codec

// Profile bundles the code tables of one adapter family.
type Profile struct {
	Modes ModeTable
	Fans  FanTable
	Temps TempRange
}

func (p Profile) DecodeMode(raw uint8) (Mode, bool) { return p.Modes.Decode(raw) }
func (p Profile) EncodeMode(m Mode) (uint8, bool)   { return p.Modes.Encode(m) }
func (p Profile) DecodeFan(raw uint8) (Fan, bool)   { return p.Fans.Decode(raw) }
func (p Profile) EncodeFan(f Fan) (uint8, bool)     { return p.Fans.Encode(f) }
