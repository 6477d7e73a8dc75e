// internal/adapter/solo.go
package adapter

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/status"
	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// Solo gateway registers. One indoor unit per gateway.
const (
	SoloStatusAddr  uint16 = 0
	SoloStatusCount uint16 = 7
	SoloControlAddr uint16 = 4000

	SoloIdentityAddr uint16 = 2000
	SoloBrandAddr    uint16 = 4010
	SoloRestartAddr  uint16 = 4015
	SoloResetAddr    uint16 = 4016
)

// Solo drives a single-unit gateway.
type Solo struct {
	regmap
	optional
}

var _ Adapter = (*Solo)(nil)

// NewSolo returns the Solo adapter.
func NewSolo(log zerolog.Logger) *Solo {
	const name = "solo"
	return &Solo{
		optional: optional{name: name},
		regmap: regmap{
			name: name,
			log:  log,
			profile: codec.Profile{
				Modes: codec.VRFModes,
				Fans:  codec.EnumeratedFans,
				Temps: codec.DefaultTempRange,
			},
			statusAddr: func(status.Address) uint16 { return SoloStatusAddr },
			status: statusLayout{
				count: SoloStatusCount,
				fields: []field{
					powerAt(0),
					modeAt(1, 0xFF),
					targetAt(2),
					fanAt(3, 0x0F),
					swingAt(4, 0xFF),
					faultCodeAt(5),
					roomAt(6),
				},
			},
			control: controlMap{
				base:      func(status.Address) uint16 { return SoloControlAddr },
				power:     0,
				mode:      1,
				temp:      2,
				fan:       3,
				swing:     4,
				powerOn:   1,
				powerOff:  0,
				modeMask:  0x0F,
				fanMask:   0x0F,
				swingMask: 0xFF,
				temps:     codec.DefaultTempRange,
			},
		},
	}
}

func (s *Solo) Kind() Kind                  { return KindSolo }
func (s *Solo) MaxUnits() int               { return 1 }
func (s *Solo) BrandName(code uint8) string { return soloBrands.name(code) }

func (s *Solo) Capabilities() Capabilities {
	return Capabilities{BrandWrite: true, Restart: true, FactoryReset: true}
}

// ScanDevices reports the single unit when its status block answers
// with at least one non-zero register.
func (s *Solo) ScanDevices(c transport.Client) []status.Address {
	return s.scan(c, scanPlan{
		candidates: []status.Address{{}},
		addr:       s.statusAddr,
		count:      SoloStatusCount,
		present:    anyNonZero,
	})
}

func (s *Solo) ReadIdentity(c transport.Client) (status.Identity, error) {
	regs, err := c.ReadHoldingRegisters(SoloIdentityAddr, 1)
	if err != nil {
		return status.Identity{}, fmt.Errorf("solo: read identity: %w", err)
	}
	code := uint8(regs[0] & 0xFF)
	return status.Identity{BrandCode: code, BrandName: s.BrandName(code)}, nil
}

// WriteBrandCode stores the brand and restarts the gateway so it
// takes effect.
func (s *Solo) WriteBrandCode(c transport.Client, brand uint8) error {
	if err := c.WriteRegister(SoloBrandAddr, uint16(brand)); err != nil {
		return fmt.Errorf("solo: write brand: %w", err)
	}
	s.log.Info().Uint8("brand", brand).Str("name", s.BrandName(brand)).Msg("brand written, restarting gateway")
	return s.Restart(c)
}

func (s *Solo) Restart(c transport.Client) error {
	if err := c.WriteRegister(SoloRestartAddr, 1); err != nil {
		return fmt.Errorf("solo: restart: %w", err)
	}
	return nil
}

func (s *Solo) FactoryReset(c transport.Client) error {
	if err := c.WriteRegister(SoloResetAddr, 1); err != nil {
		return fmt.Errorf("solo: factory reset: %w", err)
	}
	return nil
}
