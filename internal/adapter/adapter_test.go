// internal/adapter/adapter_test.go
package adapter_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/vrf-gateway/internal/adapter"
	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/simulator"
	"github.com/tamzrod/vrf-gateway/internal/status"
)

func addr(sys, idx uint8) status.Address { return status.Address{System: sys, Index: idx} }

func TestNew_Kinds(t *testing.T) {
	for _, k := range adapter.Kinds {
		a, err := adapter.New(string(k), zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, k, a.Kind())
		assert.Equal(t, string(k), a.Name())
	}

	_, err := adapter.New("mega", zerolog.Nop())
	assert.ErrorIs(t, err, adapter.ErrUnknownKind)
}

func TestSolo_ReadStatus(t *testing.T) {
	bank := simulator.NewBank()
	bank.Set(0, 1, 0x01, 24, 0x00, 0x00, 0, 22)
	a := adapter.NewSolo(zerolog.Nop())

	got := a.ReadStatus(bank, addr(0, 0))
	want := status.UnitStatus{
		Available:   true,
		Power:       true,
		ModeCode:    0x01,
		TargetTemp:  24,
		CurrentTemp: status.Int(22),
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", d)
	}

	mode, ok := a.Codec().DecodeMode(got.ModeCode)
	assert.True(t, ok)
	assert.Equal(t, codec.ModeCool, mode)
	assert.False(t, got.Fault.Active())
}

func TestSolo_ReadStatusFailureIsUnavailable(t *testing.T) {
	bank := simulator.NewBank()
	bank.SetDown(true)
	a := adapter.NewSolo(zerolog.Nop())

	got := a.ReadStatus(bank, addr(0, 0))
	assert.False(t, got.Available)
	assert.Empty(t, a.ScanDevices(bank))
}

func TestSolo_WritesAndClamp(t *testing.T) {
	bank := simulator.NewBank()
	a := adapter.NewSolo(zerolog.Nop())
	u := addr(0, 0)

	require.NoError(t, a.WritePower(bank, u, true))
	require.NoError(t, a.WriteMode(bank, u, 0x18))
	require.NoError(t, a.WriteTemperature(bank, u, 45))
	require.NoError(t, a.WriteFanSpeed(bank, u, 0x13))
	require.NoError(t, a.WriteSwing(bank, u, 0x02))
	require.NoError(t, a.WritePower(bank, u, false))

	want := []simulator.Write{
		{Addr: 4000, Value: 1},
		{Addr: 4001, Value: 0x08},
		{Addr: 4002, Value: 30},
		{Addr: 4003, Value: 0x03},
		{Addr: 4004, Value: 0x02},
		{Addr: 4000, Value: 0},
	}
	assert.Equal(t, want, bank.Writes())

	bank.ResetWrites()
	require.NoError(t, a.WriteTemperature(bank, u, 3))
	assert.Equal(t, []simulator.Write{{Addr: 4002, Value: 16}}, bank.Writes())
}

func TestSolo_OptionalActions(t *testing.T) {
	bank := simulator.NewBank()
	bank.Set(adapter.SoloIdentityAddr, 6)
	a := adapter.NewSolo(zerolog.Nop())

	id, err := a.ReadIdentity(bank)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), id.BrandCode)
	assert.Equal(t, "Gree", id.BrandName)

	caps := a.Capabilities()
	assert.True(t, caps.BrandWrite)
	assert.False(t, caps.SystemTime)

	require.NoError(t, a.WriteBrandCode(bank, 8))
	require.NoError(t, a.FactoryReset(bank))
	assert.Equal(t, []simulator.Write{
		{Addr: 4010, Value: 8},
		{Addr: 4015, Value: 1},
		{Addr: 4016, Value: 1},
	}, bank.Writes())

	err = a.SetSystemTime(bank, time.Now())
	assert.ErrorIs(t, err, adapter.ErrUnsupported)
}

func TestLight_ScanAndStatus(t *testing.T) {
	bank := simulator.NewBank()
	// unit 0-3: on, 23C, heat, fan medium + swing off, room 21, no fault
	bank.Set(adapter.LightStatusAddr(addr(0, 3)), 1, 23, 0x08, codec.PackFanSwing(0x02, 0x01), 21, 0)
	// unit 1-0: only a room temperature
	bank.Set(adapter.LightStatusAddr(addr(1, 0))+4, 19)
	a := adapter.NewLight(zerolog.Nop())

	found := a.ScanDevices(bank)
	assert.Equal(t, []status.Address{addr(0, 3), addr(1, 0)}, found)
	assert.Equal(t, found, a.ScanDevices(bank), "scan must be idempotent")

	st := a.ReadStatus(bank, addr(0, 3))
	require.True(t, st.Available)
	assert.True(t, st.Power)
	assert.Equal(t, 23, st.TargetTemp)
	assert.Equal(t, uint8(0x08), st.ModeCode)
	assert.Equal(t, uint8(0x02), st.FanCode)
	assert.Equal(t, uint8(0x01), st.SwingCode)
	assert.Equal(t, 21, *st.CurrentTemp)

	fan, ok := a.Codec().DecodeFan(st.FanCode)
	assert.True(t, ok)
	assert.Equal(t, codec.FanMedium, fan)
}

func TestLight_ControlBlockFailureMakesUnitUnavailable(t *testing.T) {
	bank := simulator.NewBank()
	u := addr(2, 5)
	bank.Set(adapter.LightStatusAddr(u), 1, 22, 0x01, 0, 20, 0)
	bank.Fail(adapter.LightControlAddr(u), 1)
	a := adapter.NewLight(zerolog.Nop())

	assert.False(t, a.ReadStatus(bank, u).Available)

	bank.Heal()
	assert.True(t, a.ReadStatus(bank, u).Available)
}

func TestLight_PackedFanSwingReadModifyWrite(t *testing.T) {
	bank := simulator.NewBank()
	u := addr(0, 1)
	ctl := adapter.LightControlAddr(u)
	require.Equal(t, uint16(4004), ctl)

	a := adapter.NewLight(zerolog.Nop())
	high, _ := a.Codec().EncodeFan(codec.FanHigh)
	on, _ := codec.EncodeSwing(codec.SwingOn)

	require.NoError(t, a.WriteFanSpeed(bank, u, high))
	require.NoError(t, a.WriteSwing(bank, u, on))

	reg := bank.Get(ctl+3, 1)[0]
	assert.Equal(t, high, codec.FanOf(reg), "swing write must keep the fan byte")
	assert.Equal(t, on, codec.SwingOf(reg))

	require.NoError(t, a.WriteSwing(bank, u, 0x04))
	reg = bank.Get(ctl+3, 1)[0]
	assert.Equal(t, codec.PackFanSwing(high, 0x04), reg)
}

func TestLight_PowerCodesAndIdentity(t *testing.T) {
	bank := simulator.NewBank()
	bank.Set(adapter.LightIdentityAddr, 0x0102, 0x000F, 0x0007, 16<<8|30, 0x0005)
	a := adapter.NewLight(zerolog.Nop())
	u := addr(0, 0)

	require.NoError(t, a.WritePower(bank, u, true))
	require.NoError(t, a.WritePower(bank, u, false))
	assert.Equal(t, []simulator.Write{{Addr: 4000, Value: 1}, {Addr: 4000, Value: 2}}, bank.Writes())

	id, err := a.ReadIdentity(bank)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x02), id.BrandCode)
	assert.Equal(t, "Daikin VRV", id.BrandName)
	assert.Equal(t, codec.TempRange{Min: 16, Max: 30}, id.TempLimits)
	assert.Equal(t, []string{"master-slave", "front-rear wind direction"}, id.Features())

	assert.Equal(t, adapter.Capabilities{}, a.Capabilities())
	for _, err := range []error{
		a.WriteBrandCode(bank, 1),
		a.Restart(bank),
		a.FactoryReset(bank),
		a.SetSystemTime(bank, time.Now()),
	} {
		assert.True(t, errors.Is(err, adapter.ErrUnsupported), "got %v", err)
	}
	assert.Equal(t, "Unknown (77)", a.BrandName(77))
}

func TestPro_ScanStopsAfterSixEmptySlots(t *testing.T) {
	bank := simulator.NewBank()
	a := adapter.NewPro(zerolog.Nop())

	bank.Set(adapter.ProBlockAddr(addr(0, 0)), 1, 2, 0, 1)
	bank.Set(adapter.ProBlockAddr(addr(0, 2)), 3, 4)
	// garbage slot: high registers out of byte range
	bank.Set(adapter.ProBlockAddr(addr(0, 3)), 0x1234, 0x0001)
	// 3..8 empty, so 9 is never reached
	bank.Set(adapter.ProBlockAddr(addr(0, 9)), 1, 1)

	found := a.ScanDevices(bank)
	assert.Equal(t, []status.Address{addr(0, 0), addr(0, 2)}, found)
	assert.Equal(t, 9, bank.Reads())
}

func TestPro_ReadStatusDecodesExtras(t *testing.T) {
	bank := simulator.NewBank()
	u := addr(0, 5)
	base := adapter.ProBlockAddr(u)
	require.Equal(t, uint16(24080), base)

	regs := make([]uint16, 16)
	regs[3] = 1
	regs[4] = 26
	regs[5] = 0x02
	regs[6] = 3
	regs[7] = 0
	regs[10] = 27
	regs[11] = 55
	regs[13] = 1440
	copy(regs[14:], codec.EncodeASCII("E4", 2))
	bank.Set(base, regs...)

	a := adapter.NewPro(zerolog.Nop())
	st := a.ReadStatus(bank, u)
	require.True(t, st.Available)
	assert.Equal(t, 26, st.TargetTemp)
	assert.Equal(t, uint8(0x02), st.ModeCode)
	mode, _ := a.Codec().DecodeMode(st.ModeCode)
	assert.Equal(t, codec.ModeCool, mode)
	assert.Equal(t, 55, *st.Humidity)
	assert.Equal(t, 1440, *st.RuntimeMinutes)
	assert.Equal(t, "E4", st.Fault.Text)
	assert.True(t, st.Fault.Active())

	fan, _ := a.Codec().DecodeFan(st.FanCode)
	assert.Equal(t, codec.FanHigh, fan)
}

func TestPro_WritesAndGatewayActions(t *testing.T) {
	bank := simulator.NewBank()
	bank.Set(adapter.ProIdentityAddr, 0x0307)
	a := adapter.NewPro(zerolog.Nop())
	u := addr(0, 1)

	require.NoError(t, a.WriteTemperature(bank, u, 40))
	require.NoError(t, a.WriteSwing(bank, u, 0x03))
	assert.Equal(t, []simulator.Write{{Addr: 24020, Value: 32}, {Addr: 24023, Value: 3}}, bank.Writes())

	id, err := a.ReadIdentity(bank)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), id.BrandCode)
	assert.Equal(t, uint8(3), id.SlaveID)
	assert.Equal(t, "Hisense VRF", id.BrandName)

	bank.ResetWrites()
	require.NoError(t, a.WriteBrandCode(bank, 40))
	require.NoError(t, a.FactoryReset(bank))
	when := time.Date(2024, time.March, 9, 14, 5, 30, 0, time.UTC)
	require.NoError(t, a.SetSystemTime(bank, when))

	assert.Equal(t, []simulator.Write{
		{Addr: 62006, Value: 40},
		{Addr: 62005, Value: 0x0080},
		{Addr: 62005, Value: 0x0040},
		{Addr: 62000, Value: 24<<8 | 3},
		{Addr: 62001, Value: 9<<8 | 14},
		{Addr: 62002, Value: 5<<8 | 30},
	}, bank.Writes())
}

func TestPro_CodecEncodesFirmwareCodes(t *testing.T) {
	a := adapter.NewPro(zerolog.Nop())
	p := a.Codec()

	modes := map[codec.Mode]uint8{
		codec.ModeHeat:    0x01,
		codec.ModeCool:    0x02,
		codec.ModeFanOnly: 0x04,
		codec.ModeDry:     0x08,
	}
	for m, want := range modes {
		got, ok := p.EncodeMode(m)
		assert.True(t, ok, "mode %s", m)
		assert.Equal(t, want, got, "mode %s", m)
	}

	fans := map[codec.Fan]uint8{
		codec.FanAuto:   0x00,
		codec.FanLow:    0x01,
		codec.FanMedium: 0x02,
		codec.FanHigh:   0x03,
	}
	for f, want := range fans {
		got, ok := p.EncodeFan(f)
		assert.True(t, ok, "fan %s", f)
		assert.Equal(t, want, got, "fan %s", f)
	}

	bank := simulator.NewBank()
	heat, _ := p.EncodeMode(codec.ModeHeat)
	require.NoError(t, a.WriteMode(bank, addr(0, 2), heat))
	assert.Equal(t, []simulator.Write{{Addr: 24037, Value: 0x01}}, bank.Writes())
}

func TestScan_AllZeroBankHasNoUnits(t *testing.T) {
	for _, k := range adapter.Kinds {
		a, err := adapter.New(string(k), zerolog.Nop())
		require.NoError(t, err)
		assert.Empty(t, a.ScanDevices(simulator.NewBank()), "kind %s", k)
	}
}

func TestSolo_ScanFindsConfiguredUnit(t *testing.T) {
	bank := simulator.NewBank()
	bank.Set(adapter.SoloStatusAddr, 0, 0x01, 24)
	a := adapter.NewSolo(zerolog.Nop())
	assert.Equal(t, []status.Address{addr(0, 0)}, a.ScanDevices(bank))
}

func TestWrites_FailureIsWrapped(t *testing.T) {
	bank := simulator.NewBank()
	bank.SetDown(true)

	for _, k := range adapter.Kinds {
		a, err := adapter.New(string(k), zerolog.Nop())
		require.NoError(t, err)
		err = a.WritePower(bank, addr(0, 0), true)
		assert.ErrorIs(t, err, simulator.ErrOffline, "kind %s", k)
		err = a.WriteFanSpeed(bank, addr(0, 0), 1)
		assert.ErrorIs(t, err, simulator.ErrOffline, "kind %s", k)
		_, err = a.ReadIdentity(bank)
		assert.Error(t, err)
	}
}
