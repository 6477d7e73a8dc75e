// internal/simulator/gateway.go
package simulator

import (
	"github.com/tamzrod/vrf-gateway/internal/adapter"
	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/status"
)

// Unit is what a simulated indoor unit reports.
type Unit struct {
	Power     bool
	Mode      uint8
	Target    int
	Room      int
	Fan       uint8
	Swing     uint8
	Fault     uint16
	FaultText string // Pro only

	Humidity int // Pro only
	Runtime  int // Pro only, minutes
}

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// SoloGateway returns a bank laid out like a Solo gateway with one
// unit. Control writes are mirrored into the status block the way the
// gateway does once the unit acknowledges them.
func SoloGateway(brand uint8, u Unit) *Bank {
	b := NewBank()
	b.Set(adapter.SoloIdentityAddr, uint16(brand))
	b.Set(adapter.SoloStatusAddr,
		b2u(u.Power), uint16(u.Mode), uint16(u.Target), uint16(u.Fan),
		uint16(u.Swing), u.Fault, uint16(u.Room))
	b.Set(adapter.SoloControlAddr,
		b2u(u.Power), uint16(u.Mode), uint16(u.Target), uint16(u.Fan), uint16(u.Swing))

	b.OnWrite(func(b *Bank, addr, value uint16) {
		if addr >= adapter.SoloControlAddr && addr < adapter.SoloControlAddr+5 {
			b.Set(adapter.SoloStatusAddr+(addr-adapter.SoloControlAddr), value)
		}
	})
	return b
}

// LightGateway returns a bank laid out like a Light gateway holding
// units. Control writes are mirrored into the matching status block.
func LightGateway(brand uint8, units map[status.Address]Unit) *Bank {
	b := NewBank()
	b.Set(adapter.LightIdentityAddr, uint16(brand), 0x000F, 0x0007, 16<<8|30, 0)

	for a, u := range units {
		packed := codec.PackFanSwing(u.Fan, u.Swing)
		b.Set(adapter.LightStatusAddr(a),
			b2u(u.Power), uint16(u.Target), uint16(u.Mode), packed, uint16(u.Room), u.Fault)
		power := uint16(0x02)
		if u.Power {
			power = 0x01
		}
		b.Set(adapter.LightControlAddr(a), power, uint16(u.Target), uint16(u.Mode), packed)
	}

	first := adapter.LightControlBase
	last := adapter.LightControlBase + adapter.LightSystems*adapter.LightUnitsPerSystem*adapter.LightControlCount
	b.OnWrite(func(b *Bank, addr, value uint16) {
		if addr < first || addr >= last {
			return
		}
		slot := (addr - first) / adapter.LightControlCount
		off := (addr - first) % adapter.LightControlCount
		st := slot * adapter.LightStatusCount

		switch off {
		case 0:
			b.Set(st, b2u(value == 0x01))
		case 1:
			b.Set(st+1, value)
		case 2:
			b.Set(st+2, value)
		case 3:
			b.Set(st+3, value)
		}
	})
	return b
}

// ProGateway returns a bank laid out like a Pro gateway answering as
// slave, with units keyed by index. Pro status and control share one
// block, so no mirroring is needed.
func ProGateway(brand, slave uint8, units map[uint8]Unit) *Bank {
	b := NewBank()
	b.Set(adapter.ProIdentityAddr, uint16(slave)<<8|uint16(brand))

	for idx, u := range units {
		regs := make([]uint16, adapter.ProBlockSize)
		// registers 0 and 1 carry the unit's own address on real
		// gateways and must stay below 256 for the scan
		regs[0] = 1
		regs[1] = uint16(idx)
		regs[3] = b2u(u.Power)
		regs[4] = uint16(u.Target)
		regs[5] = uint16(u.Mode)
		regs[6] = uint16(u.Fan)
		regs[7] = uint16(u.Swing)
		regs[10] = uint16(u.Room)
		regs[11] = uint16(u.Humidity)
		regs[13] = uint16(u.Runtime)
		copy(regs[14:], codec.EncodeASCII(u.FaultText, adapter.ProFaultWidth))
		b.Set(adapter.ProBlockAddr(status.Address{Index: idx}), regs...)
	}
	return b
}
