// internal/transport/transport_test.go
package transport

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake conn ----

type fakeConn struct {
	inFlight  atomic.Int32
	overlap   atomic.Bool
	closed    atomic.Int32
	connects  atomic.Int32
	failRead  error
	shortRead bool

	mu     sync.Mutex
	slaves []uint8
	writes []uint16
}

func (f *fakeConn) enter() func() {
	if f.inFlight.Add(1) > 1 {
		f.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeConn) Connect() error { f.connects.Add(1); return nil }
func (f *fakeConn) Close() error   { f.closed.Add(1); return nil }

func (f *fakeConn) ReadHoldingRegisters(slave uint8, addr, count uint16) ([]byte, error) {
	defer f.enter()()
	f.mu.Lock()
	f.slaves = append(f.slaves, slave)
	f.mu.Unlock()
	if f.failRead != nil {
		return nil, f.failRead
	}
	n := int(count)
	if f.shortRead {
		n--
	}
	out := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		v := addr + uint16(i)
		out[2*i] = byte(v >> 8)
		out[2*i+1] = byte(v)
	}
	return out, nil
}

func (f *fakeConn) WriteSingleRegister(slave uint8, addr, value uint16) error {
	defer f.enter()()
	f.mu.Lock()
	f.writes = append(f.writes, value)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) WriteMultipleRegisters(slave uint8, addr uint16, values []byte) error {
	defer f.enter()()
	f.mu.Lock()
	f.writes = append(f.writes, unpackRegisters(values)...)
	f.mu.Unlock()
	return nil
}

func newTestRegistry(conns *[]*fakeConn) *Registry {
	return NewRegistry(func(cfg LinkConfig) (Conn, error) {
		c := &fakeConn{}
		*conns = append(*conns, c)
		return c, nil
	}, zerolog.Nop())
}

// ---- tests ----

func TestLinkConfigKey(t *testing.T) {
	s := LinkConfig{Kind: KindSerial, Device: " /dev/ttyUSB0 ", BaudRate: 9600}
	assert.Equal(t, "serial::/dev/ttyUSB0", s.Key())

	tc := LinkConfig{Kind: KindTCP, Host: "10.0.0.5", Port: 502}
	assert.Equal(t, "tcp::10.0.0.5:502", tc.Key())
	assert.Equal(t, "10.0.0.5:502", tc.Address())
}

func TestRegistry_SameLinkIsShared(t *testing.T) {
	var conns []*fakeConn
	r := newTestRegistry(&conns)

	a, err := r.Acquire(LinkConfig{Kind: KindSerial, Device: "/dev/ttyUSB0", BaudRate: 9600})
	require.NoError(t, err)
	b, err := r.Acquire(LinkConfig{Kind: KindSerial, Device: "/dev/ttyUSB0", BaudRate: 19200})
	require.NoError(t, err)
	c, err := r.Acquire(LinkConfig{Kind: KindTCP, Host: "gw", Port: 502})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Len(t, conns, 2)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, int32(1), conns[0].connects.Load())
}

type slowConn struct {
	fakeConn
	entered chan struct{}
	gate    chan struct{}
}

func (s *slowConn) Connect() error {
	close(s.entered)
	<-s.gate
	return nil
}

func TestRegistry_SlowConnectDoesNotBlockOtherLinks(t *testing.T) {
	slow := &slowConn{entered: make(chan struct{}), gate: make(chan struct{})}
	r := NewRegistry(func(cfg LinkConfig) (Conn, error) {
		if cfg.Kind == KindSerial {
			return slow, nil
		}
		return &fakeConn{}, nil
	}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Acquire(LinkConfig{Kind: KindSerial, Device: "/dev/ttyUSB0"})
	}()
	<-slow.entered

	acquired := make(chan error, 1)
	go func() {
		_, err := r.Acquire(LinkConfig{Kind: KindTCP, Host: "gw", Port: 502})
		acquired <- err
	}()

	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatalf("Acquire blocked behind another link's connect")
	}

	close(slow.gate)
	<-done
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_LastReleaseCloses(t *testing.T) {
	var conns []*fakeConn
	r := newTestRegistry(&conns)

	cfg := LinkConfig{Kind: KindTCP, Host: "gw", Port: 502}
	a, _ := r.Acquire(cfg)
	b, _ := r.Acquire(cfg)

	require.NoError(t, r.Release(a))
	assert.Equal(t, int32(0), conns[0].closed.Load())

	require.NoError(t, r.Release(b))
	assert.Equal(t, int32(1), conns[0].closed.Load())
	assert.Equal(t, 0, r.Len())

	_, err := a.Session(1).ReadHoldingRegisters(0, 1)
	assert.ErrorIs(t, err, ErrClosed)

	assert.Error(t, r.Release(a))
}

func TestSession_SerializesAcrossSlaves(t *testing.T) {
	var conns []*fakeConn
	r := newTestRegistry(&conns)
	l, _ := r.Acquire(LinkConfig{Kind: KindSerial, Device: "/dev/ttyS0"})

	var wg sync.WaitGroup
	for slave := uint8(1); slave <= 4; slave++ {
		s := l.Session(slave)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				_, _ = s.ReadHoldingRegisters(10, 2)
				_ = s.WriteRegister(10, 1)
			}
		}()
	}
	wg.Wait()

	assert.False(t, conns[0].overlap.Load(), "requests overlapped on one link")
	assert.Len(t, conns[0].slaves, 20)
}

func TestSession_ReadUnpacksBigEndian(t *testing.T) {
	var conns []*fakeConn
	r := newTestRegistry(&conns)
	l, _ := r.Acquire(LinkConfig{Kind: KindTCP, Host: "gw", Port: 502})

	regs, err := l.Session(3).ReadHoldingRegisters(0x0102, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x0102, 0x0103, 0x0104}, regs)
	assert.Equal(t, []uint8{3}, conns[0].slaves)
}

func TestSession_ShortResponse(t *testing.T) {
	var conns []*fakeConn
	r := newTestRegistry(&conns)
	l, _ := r.Acquire(LinkConfig{Kind: KindTCP, Host: "gw", Port: 502})
	conns[0].shortRead = true

	_, err := l.Session(1).ReadHoldingRegisters(0, 4)
	assert.ErrorIs(t, err, ErrShortResponse)
	assert.Equal(t, "short_response", Reason(err))
}

func TestSession_ErrorsAreWrapped(t *testing.T) {
	var conns []*fakeConn
	r := newTestRegistry(&conns)
	l, _ := r.Acquire(LinkConfig{Kind: KindTCP, Host: "gw", Port: 502})
	conns[0].failRead = &ExceptionError{Function: 3, Exception: 2}

	_, err := l.Session(1).ReadHoldingRegisters(0, 1)
	require.Error(t, err)
	assert.Equal(t, uint16(2), ErrorCode(err))
	assert.Equal(t, "exception", Reason(err))

	conns[0].failRead = ErrTimeout
	_, err = l.Session(1).ReadHoldingRegisters(0, 1)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, uint16(1), ErrorCode(err))
}

func TestSession_WriteRegistersPacks(t *testing.T) {
	var conns []*fakeConn
	r := newTestRegistry(&conns)
	l, _ := r.Acquire(LinkConfig{Kind: KindTCP, Host: "gw", Port: 502})

	require.NoError(t, l.Session(1).WriteRegisters(62000, []uint16{0x1801, 0x0203}))
	assert.Equal(t, []uint16{0x1801, 0x0203}, conns[0].writes)
}

func TestRegistry_DialFailure(t *testing.T) {
	r := NewRegistry(func(LinkConfig) (Conn, error) {
		return nil, errors.New("no such port")
	}, zerolog.Nop())
	_, err := r.Acquire(LinkConfig{Kind: KindSerial, Device: "/dev/none"})
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len())
}
