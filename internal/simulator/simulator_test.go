// internal/simulator/simulator_test.go
package simulator

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/vrf-gateway/internal/transport"
	tmodbus "github.com/tamzrod/vrf-gateway/internal/transport/modbus"
)

func TestBank_ReadWriteAndFailures(t *testing.T) {
	b := NewBank()
	b.Set(10, 1, 2, 3)

	regs, err := b.ReadHoldingRegisters(9, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 2, 3, 0}, regs)

	b.Fail(12, 1)
	_, err = b.ReadHoldingRegisters(10, 3)
	assert.ErrorIs(t, err, ErrOffline)
	_, err = b.ReadHoldingRegisters(13, 2)
	assert.NoError(t, err)

	assert.Error(t, b.WriteRegister(12, 5))

	b.Heal()
	require.NoError(t, b.WriteRegisters(12, []uint16{7, 8}))
	assert.Equal(t, []Write{{Addr: 12, Value: 7}, {Addr: 13, Value: 8}}, b.Writes())
	assert.Equal(t, []uint16{7, 8}, b.Get(12, 2))

	b.SetDown(true)
	_, err = b.ReadHoldingRegisters(0, 1)
	assert.True(t, errors.Is(err, ErrOffline))
}

func TestBank_WriteHookMayMirror(t *testing.T) {
	b := NewBank()
	b.OnWrite(func(b *Bank, addr, value uint16) {
		if addr >= 4000 {
			b.Set(addr-4000, value)
		}
	})
	require.NoError(t, b.WriteRegister(4002, 25))
	assert.Equal(t, []uint16{25}, b.Get(2, 1))
	assert.Len(t, b.Writes(), 1)
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServer_EndToEndOverTCP(t *testing.T) {
	listen := freePort(t)

	srv, err := NewServer(Config{Listen: listen}, zerolog.Nop())
	require.NoError(t, err)

	bank := NewBank()
	bank.Set(0, 1, 0x01, 24, 0x00, 0x00, 0, 22)
	srv.Attach(1, bank)

	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })

	host, portStr, err := net.SplitHostPort(listen)
	require.NoError(t, err)
	port, err := net.LookupPort("tcp", portStr)
	require.NoError(t, err)

	reg := transport.NewRegistry(tmodbus.Dial, zerolog.Nop())
	link, err := reg.Acquire(transport.LinkConfig{
		Kind:    transport.KindTCP,
		Host:    host,
		Port:    port,
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Release(link) })

	c := link.Session(1)
	require.NoError(t, c.Connect())

	regs, err := c.ReadHoldingRegisters(0, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 0x01, 24, 0, 0, 0, 22}, regs)

	require.NoError(t, c.WriteRegister(4002, 26))
	require.NoError(t, c.WriteRegisters(62000, []uint16{0x1801, 0x0203}))
	assert.Equal(t, []uint16{26}, bank.Get(4002, 1))
	assert.Equal(t, []uint16{0x1801, 0x0203}, bank.Get(62000, 2))

	bank.Fail(0, 1)
	_, err = c.ReadHoldingRegisters(0, 7)
	var ex *transport.ExceptionError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, uint16(2), ex.Code())

	// unit 9 has no bank behind the server
	_, err = link.Session(9).ReadHoldingRegisters(0, 1)
	assert.Error(t, err)
}
