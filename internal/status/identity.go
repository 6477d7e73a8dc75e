// internal/status/identity.go
package status

import "github.com/tamzrod/vrf-gateway/internal/codec"

// Identity is the gateway-level information shared by all units
// behind one gateway. Fields a gateway does not report stay zero.
type Identity struct {
	BrandCode uint8
	BrandName string

	SupportedModes uint16
	SupportedFans  uint16
	TempLimits     codec.TempRange
	SpecialInfo    uint16

	// Pro gateways echo their own slave id.
	SlaveID uint8
}

// Known reports whether an identity read has ever succeeded.
func (i Identity) Known() bool {
	return i.BrandCode != 0
}

// Features lists the decoded special-info flags.
func (i Identity) Features() []string {
	return codec.DecodeSpecialInfo(i.SpecialInfo)
}
