// internal/adapter/light.go
package adapter

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/status"
	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// Light gateway registers. Units are addressed by (system, index),
// 32 indexes per system.
const (
	LightSystems        = 8
	LightUnitsPerSystem = 32

	LightStatusCount  uint16 = 6
	LightControlBase  uint16 = 4000
	LightControlCount uint16 = 4

	LightIdentityAddr  uint16 = 8000
	LightIdentityCount uint16 = 5
)

func lightSlot(a status.Address) uint16 {
	return uint16(a.System)*LightUnitsPerSystem + uint16(a.Index)
}

// LightStatusAddr is the first status register of unit a.
func LightStatusAddr(a status.Address) uint16 {
	return lightSlot(a) * LightStatusCount
}

// LightControlAddr is the first control register of unit a.
func LightControlAddr(a status.Address) uint16 {
	return LightControlBase + lightSlot(a)*LightControlCount
}

// Light drives the addressable multi-system gateway. It has no
// optional gateway actions.
type Light struct {
	regmap
	optional
}

var _ Adapter = (*Light)(nil)

// NewLight returns the Light adapter.
func NewLight(log zerolog.Logger) *Light {
	const name = "light"
	return &Light{
		optional: optional{name: name},
		regmap: regmap{
			name: name,
			log:  log,
			profile: codec.Profile{
				Modes: codec.VRFModes,
				Fans:  codec.VRFFanBits,
				Temps: codec.DefaultTempRange,
			},
			statusAddr: LightStatusAddr,
			status: statusLayout{
				count: LightStatusCount,
				fields: []field{
					powerAt(0),
					targetAt(1),
					modeAt(2, 0xFF),
					fanSwingAt(3),
					roomAt(4),
					faultCodeAt(5),
				},
			},
			control: controlMap{
				base:           LightControlAddr,
				power:          0,
				temp:           1,
				mode:           2,
				fan:            3,
				swing:          3,
				powerOn:        0x01,
				powerOff:       0x02,
				modeMask:       0xFF,
				fanMask:        0xFF,
				swingMask:      0xFF,
				packedFanSwing: true,
				temps:          codec.DefaultTempRange,
			},
		},
	}
}

func (l *Light) Kind() Kind                  { return KindLight }
func (l *Light) MaxUnits() int               { return LightSystems * LightUnitsPerSystem }
func (l *Light) BrandName(code uint8) string { return lightBrands.name(code) }

// ScanDevices sweeps every (system, index) slot. A slot is present
// when it answers with at least one non-zero register.
func (l *Light) ScanDevices(c transport.Client) []status.Address {
	candidates := make([]status.Address, 0, l.MaxUnits())
	for sys := 0; sys < LightSystems; sys++ {
		for idx := 0; idx < LightUnitsPerSystem; idx++ {
			candidates = append(candidates, status.Address{System: uint8(sys), Index: uint8(idx)})
		}
	}
	return l.scan(c, scanPlan{
		candidates: candidates,
		addr:       LightStatusAddr,
		count:      LightStatusCount,
		present:    anyNonZero,
	})
}

// ReadStatus decodes the status block. The unit is only available
// when its control block answers as well.
func (l *Light) ReadStatus(c transport.Client, a status.Address) status.UnitStatus {
	st := l.regmap.ReadStatus(c, a)
	if !st.Available {
		return st
	}
	addr := LightControlAddr(a)
	if _, err := c.ReadHoldingRegisters(addr, LightControlCount); err != nil {
		l.log.Debug().Err(err).Str("unit", a.Key()).Uint16("addr", addr).Msg("control block read failed")
		return status.Unavailable()
	}
	return st
}

func (l *Light) ReadIdentity(c transport.Client) (status.Identity, error) {
	regs, err := c.ReadHoldingRegisters(LightIdentityAddr, LightIdentityCount)
	if err != nil {
		return status.Identity{}, fmt.Errorf("light: read identity: %w", err)
	}
	code := uint8(regs[0] & 0xFF)
	return status.Identity{
		BrandCode:      code,
		BrandName:      l.BrandName(code),
		SupportedModes: regs[1],
		SupportedFans:  regs[2],
		TempLimits:     codec.DecodeTempLimits(regs[3]),
		SpecialInfo:    regs[4],
	}, nil
}
