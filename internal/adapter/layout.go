// internal/adapter/layout.go
package adapter

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/status"
	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// field decodes a run of registers of one status block into s.
type field struct {
	offset int
	width  int
	apply  func(s *status.UnitStatus, regs []uint16)
}

// statusLayout describes a per-unit status block.
type statusLayout struct {
	count  uint16
	fields []field
}

func (l statusLayout) decode(regs []uint16) status.UnitStatus {
	if len(regs) != int(l.count) {
		return status.Unavailable()
	}
	s := status.UnitStatus{Available: true}
	for _, f := range l.fields {
		f.apply(&s, regs[f.offset:f.offset+f.width])
	}
	return s
}

func powerAt(off int) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) { s.Power = r[0] != 0 }}
}

func modeAt(off int, mask uint16) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) { s.ModeCode = uint8(r[0] & mask) }}
}

func targetAt(off int) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) { s.TargetTemp = codec.DecodeTemperature(r[0]) }}
}

func roomAt(off int) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) {
		s.CurrentTemp = status.Int(codec.DecodeTemperature(r[0]))
	}}
}

func fanAt(off int, mask uint16) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) { s.FanCode = uint8(r[0] & mask) }}
}

func swingAt(off int, mask uint16) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) { s.SwingCode = uint8(r[0] & mask) }}
}

// fanSwingAt decodes a packed register: fan in the low byte, swing in
// the high byte.
func fanSwingAt(off int) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) {
		s.FanCode = codec.FanOf(r[0])
		s.SwingCode = codec.SwingOf(r[0])
	}}
}

func faultCodeAt(off int) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) { s.Fault = status.Fault{Code: r[0]} }}
}

func faultASCIIAt(off, width int) field {
	return field{off, width, func(s *status.UnitStatus, r []uint16) {
		s.Fault = status.Fault{Text: codec.DecodeASCII(r)}
	}}
}

func humidityAt(off int) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) { s.Humidity = status.Int(int(r[0])) }}
}

func runtimeAt(off int) field {
	return field{off, 1, func(s *status.UnitStatus, r []uint16) { s.RuntimeMinutes = status.Int(int(r[0])) }}
}

// controlMap describes per-unit control registers as offsets from a
// per-unit base address.
type controlMap struct {
	base func(a status.Address) uint16

	power, temp, mode, fan, swing uint16

	powerOn, powerOff uint16
	modeMask          uint16
	fanMask           uint16
	swingMask         uint16

	// fan and swing share the register at offset fan
	packedFanSwing bool

	temps codec.TempRange
}

// regmap is the data-driven core shared by all families: status
// decoding plus the five control writes.
type regmap struct {
	name    string
	log     zerolog.Logger
	profile codec.Profile

	statusAddr func(a status.Address) uint16
	status     statusLayout
	control    controlMap
}

func (m *regmap) Name() string         { return m.name }
func (m *regmap) Codec() codec.Profile { return m.profile }

func (m *regmap) ReadStatus(c transport.Client, a status.Address) status.UnitStatus {
	addr := m.statusAddr(a)
	regs, err := c.ReadHoldingRegisters(addr, m.status.count)
	if err != nil {
		m.log.Debug().Err(err).Str("unit", a.Key()).Uint16("addr", addr).Msg("status read failed")
		return status.Unavailable()
	}
	return m.status.decode(regs)
}

func (m *regmap) WritePower(c transport.Client, a status.Address, on bool) error {
	v := m.control.powerOff
	if on {
		v = m.control.powerOn
	}
	return m.write(c, a, "power", m.control.power, v)
}

func (m *regmap) WriteMode(c transport.Client, a status.Address, code uint8) error {
	return m.write(c, a, "mode", m.control.mode, uint16(code)&m.control.modeMask)
}

func (m *regmap) WriteTemperature(c transport.Client, a status.Address, temp int) error {
	t := codec.ClampTemperature(temp, m.control.temps)
	if t != temp {
		m.log.Debug().Str("unit", a.Key()).Int("requested", temp).Int("clamped", t).Msg("setpoint clamped")
	}
	return m.write(c, a, "temperature", m.control.temp, uint16(t))
}

func (m *regmap) WriteFanSpeed(c transport.Client, a status.Address, code uint8) error {
	if m.control.packedFanSwing {
		return m.modifyPacked(c, a, "fan", func(cur uint16) uint16 { return codec.WithFan(cur, code) })
	}
	return m.write(c, a, "fan", m.control.fan, uint16(code)&m.control.fanMask)
}

func (m *regmap) WriteSwing(c transport.Client, a status.Address, code uint8) error {
	if m.control.packedFanSwing {
		return m.modifyPacked(c, a, "swing", func(cur uint16) uint16 { return codec.WithSwing(cur, code) })
	}
	return m.write(c, a, "swing", m.control.swing, uint16(code)&m.control.swingMask)
}

func (m *regmap) write(c transport.Client, a status.Address, what string, off, value uint16) error {
	addr := m.control.base(a) + off
	if err := c.WriteRegister(addr, value); err != nil {
		return fmt.Errorf("%s: write %s unit %s addr=%d: %w", m.name, what, a.Key(), addr, err)
	}
	return nil
}

// modifyPacked reads the shared fan/swing register, replaces one half
// and writes it back, leaving the other half untouched.
func (m *regmap) modifyPacked(c transport.Client, a status.Address, what string, set func(uint16) uint16) error {
	addr := m.control.base(a) + m.control.fan
	regs, err := c.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return fmt.Errorf("%s: read %s unit %s addr=%d: %w", m.name, what, a.Key(), addr, err)
	}
	if len(regs) != 1 {
		return fmt.Errorf("%s: read %s unit %s addr=%d: %w", m.name, what, a.Key(), addr, transport.ErrShortResponse)
	}
	if err := c.WriteRegister(addr, set(regs[0])); err != nil {
		return fmt.Errorf("%s: write %s unit %s addr=%d: %w", m.name, what, a.Key(), addr, err)
	}
	return nil
}

// scanPlan describes how to probe candidate slots for presence.
type scanPlan struct {
	candidates []status.Address
	addr       func(a status.Address) uint16
	count      uint16
	present    func(regs []uint16) bool
	// stopAfter ends the scan after that many consecutive empty slots;
	// zero scans every candidate.
	stopAfter int
}

func (m *regmap) scan(c transport.Client, p scanPlan) []status.Address {
	var found []status.Address
	empty := 0
	for _, a := range p.candidates {
		regs, err := c.ReadHoldingRegisters(p.addr(a), p.count)
		if err == nil && len(regs) == int(p.count) && p.present(regs) {
			found = append(found, a)
			empty = 0
			continue
		}
		if err != nil {
			m.log.Debug().Err(err).Str("unit", a.Key()).Msg("scan slot did not answer")
		}
		empty++
		if p.stopAfter > 0 && empty >= p.stopAfter {
			m.log.Debug().Int("empty", empty).Str("last", a.Key()).Msg("scan stopped early")
			break
		}
	}
	m.log.Info().Int("units", len(found)).Msg("scan complete")
	return found
}

func anyNonZero(regs []uint16) bool {
	for _, r := range regs {
		if r != 0 {
			return true
		}
	}
	return false
}
