// internal/adapter/pro.go
package adapter

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/status"
	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// Pro gateway registers. Every unit owns a 16-register block; units
// are numbered by index only (system is always 0).
const (
	ProMaxUnits          = 64
	ProBlockBase  uint16 = 24000
	ProBlockSize  uint16 = 16
	ProScanCount  uint16 = 6
	ProScanStop          = 6
	ProFaultWidth        = 2

	ProIdentityAddr uint16 = 15
	ProClockAddr    uint16 = 62000
	ProCommandAddr  uint16 = 62005
	ProBrandAddr    uint16 = 62006

	ProRestartWord uint16 = 0x0080
	ProResetWord   uint16 = 0x0040
)

// ProTempRange is the setpoint range accepted by Pro gateways.
var ProTempRange = codec.TempRange{Min: 16, Max: 32}

// ProBlockAddr is the first register of unit a's block.
func ProBlockAddr(a status.Address) uint16 {
	return ProBlockBase + uint16(a.Index)*ProBlockSize
}

// Pro drives the table-based 64-unit gateway.
type Pro struct {
	regmap
	optional
}

var _ Adapter = (*Pro)(nil)

// NewPro returns the Pro adapter.
func NewPro(log zerolog.Logger) *Pro {
	const name = "pro"
	return &Pro{
		optional: optional{name: name},
		regmap: regmap{
			name: name,
			log:  log,
			profile: codec.Profile{
				Modes: codec.ProModes,
				Fans:  codec.EnumeratedFans,
				Temps: ProTempRange,
			},
			statusAddr: ProBlockAddr,
			status: statusLayout{
				count: ProBlockSize,
				fields: []field{
					powerAt(3),
					targetAt(4),
					modeAt(5, 0xFF),
					fanAt(6, 0xFF),
					swingAt(7, 0xFF),
					roomAt(10),
					humidityAt(11),
					runtimeAt(13),
					faultASCIIAt(14, ProFaultWidth),
				},
			},
			control: controlMap{
				base:      ProBlockAddr,
				power:     3,
				temp:      4,
				mode:      5,
				fan:       6,
				swing:     7,
				powerOn:   1,
				powerOff:  0,
				modeMask:  0xFF,
				fanMask:   0xFF,
				swingMask: 0xFF,
				temps:     ProTempRange,
			},
		},
	}
}

func (p *Pro) Kind() Kind                  { return KindPro }
func (p *Pro) MaxUnits() int               { return ProMaxUnits }
func (p *Pro) BrandName(code uint8) string { return proBrands.name(code) }

func (p *Pro) Capabilities() Capabilities {
	return Capabilities{BrandWrite: true, Restart: true, FactoryReset: true, SystemTime: true}
}

// ScanDevices walks the unit table from index 0 and stops after six
// consecutive empty slots.
func (p *Pro) ScanDevices(c transport.Client) []status.Address {
	candidates := make([]status.Address, ProMaxUnits)
	for i := range candidates {
		candidates[i] = status.Address{Index: uint8(i)}
	}
	return p.scan(c, scanPlan{
		candidates: candidates,
		addr:       ProBlockAddr,
		count:      ProScanCount,
		present:    proSlotPresent,
		stopAfter:  ProScanStop,
	})
}

// proSlotPresent rejects all-zero slots and slots whose first two
// registers are outside a byte, which the gateway returns for
// unconfigured entries.
func proSlotPresent(regs []uint16) bool {
	if !anyNonZero(regs) {
		return false
	}
	return regs[0] <= 0xFF && regs[1] <= 0xFF
}

// ReadIdentity decodes D0015: brand in the low byte, the gateway's
// own slave id in the high byte.
func (p *Pro) ReadIdentity(c transport.Client) (status.Identity, error) {
	regs, err := c.ReadHoldingRegisters(ProIdentityAddr, 1)
	if err != nil {
		return status.Identity{}, fmt.Errorf("pro: read identity: %w", err)
	}
	raw := regs[0]
	code := uint8(raw & 0xFF)
	id := status.Identity{
		BrandCode: code,
		BrandName: p.BrandName(code),
		SlaveID:   uint8(raw >> 8),
	}
	p.log.Debug().Uint16("raw", raw).Uint8("brand", code).Uint8("slave", id.SlaveID).Msg("identity read")
	return id, nil
}

func (p *Pro) WriteBrandCode(c transport.Client, brand uint8) error {
	if err := c.WriteRegisters(ProBrandAddr, []uint16{uint16(brand)}); err != nil {
		return fmt.Errorf("pro: write brand: %w", err)
	}
	p.log.Info().Uint8("brand", brand).Str("name", p.BrandName(brand)).Msg("brand written, restarting gateway")
	return p.Restart(c)
}

func (p *Pro) Restart(c transport.Client) error {
	if err := c.WriteRegisters(ProCommandAddr, []uint16{ProRestartWord}); err != nil {
		return fmt.Errorf("pro: restart: %w", err)
	}
	return nil
}

func (p *Pro) FactoryReset(c transport.Client) error {
	if err := c.WriteRegisters(ProCommandAddr, []uint16{ProResetWord}); err != nil {
		return fmt.Errorf("pro: factory reset: %w", err)
	}
	return nil
}

// SetSystemTime writes the gateway clock as three packed words.
func (p *Pro) SetSystemTime(c transport.Client, t time.Time) error {
	regs := EncodeProClock(t)
	if err := c.WriteRegisters(ProClockAddr, regs); err != nil {
		return fmt.Errorf("pro: set system time: %w", err)
	}
	p.log.Info().Time("time", t).Msg("gateway clock set")
	return nil
}

// EncodeProClock packs t as (year-2000)<<8|month, day<<8|hour,
// minute<<8|second.
func EncodeProClock(t time.Time) []uint16 {
	return []uint16{
		uint16(t.Year()-2000)<<8 | uint16(t.Month()),
		uint16(t.Day())<<8 | uint16(t.Hour()),
		uint16(t.Minute())<<8 | uint16(t.Second()),
	}
}
