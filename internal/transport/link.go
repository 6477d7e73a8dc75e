// internal/transport/link.go
package transport

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Link is one physical line shared by every gateway on it.
// It serializes requests because a serial line cannot interleave them
// and the slave id is switched per request.
type Link struct {
	key string
	log zerolog.Logger

	mu        sync.Mutex
	conn      Conn
	connected bool
	closed    bool

	// guarded by Registry.mu
	refs int
}

func newLink(key string, conn Conn, log zerolog.Logger) *Link {
	return &Link{
		key:  key,
		conn: conn,
		log:  log.With().Str("link", key).Logger(),
	}
}

// Key returns the registry key of the link.
func (l *Link) Key() string { return l.key }

// Session returns a Client bound to one slave id on this link.
func (l *Link) Session(slave uint8) *Session {
	return &Session{link: l, slave: slave}
}

func (l *Link) connect() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	if l.connected {
		return nil
	}
	if err := l.conn.Connect(); err != nil {
		l.log.Warn().Err(err).Msg("connect failed")
		return fmt.Errorf("transport: connect %s: %w", l.key, err)
	}
	l.connected = true
	l.log.Info().Msg("connected")
	return nil
}

func (l *Link) readHolding(slave uint8, addr, count uint16) ([]uint16, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}

	raw, err := l.conn.ReadHoldingRegisters(slave, addr, count)
	if err != nil {
		l.connected = false
		l.log.Debug().Err(err).
			Uint8("slave", slave).Uint16("addr", addr).Uint16("qty", count).
			Msg("read failed")
		return nil, fmt.Errorf("transport: read slave=%d addr=%d qty=%d: %w", slave, addr, count, err)
	}
	l.connected = true

	if len(raw) != 2*int(count) {
		return nil, fmt.Errorf("transport: read slave=%d addr=%d: got %d bytes want %d: %w",
			slave, addr, len(raw), 2*int(count), ErrShortResponse)
	}
	return unpackRegisters(raw), nil
}

func (l *Link) writeSingle(slave uint8, addr, value uint16) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	if err := l.conn.WriteSingleRegister(slave, addr, value); err != nil {
		l.connected = false
		l.log.Warn().Err(err).
			Uint8("slave", slave).Uint16("addr", addr).Uint16("value", value).
			Msg("write failed")
		return fmt.Errorf("transport: write slave=%d addr=%d: %w", slave, addr, err)
	}
	l.connected = true
	return nil
}

func (l *Link) writeMultiple(slave uint8, addr uint16, values []uint16) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	if err := l.conn.WriteMultipleRegisters(slave, addr, packRegisters(values)); err != nil {
		l.connected = false
		l.log.Warn().Err(err).
			Uint8("slave", slave).Uint16("addr", addr).Int("qty", len(values)).
			Msg("write multiple failed")
		return fmt.Errorf("transport: write slave=%d addr=%d qty=%d: %w", slave, addr, len(values), err)
	}
	l.connected = true
	return nil
}

func (l *Link) close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	l.connected = false
	return l.conn.Close()
}

// Session is a Client for one slave on a shared Link.
type Session struct {
	link  *Link
	slave uint8
}

func (s *Session) Connect() error {
	return s.link.connect()
}

func (s *Session) ReadHoldingRegisters(addr, count uint16) ([]uint16, error) {
	return s.link.readHolding(s.slave, addr, count)
}

func (s *Session) WriteRegister(addr, value uint16) error {
	return s.link.writeSingle(s.slave, addr, value)
}

func (s *Session) WriteRegisters(addr uint16, values []uint16) error {
	return s.link.writeMultiple(s.slave, addr, values)
}

// Modbus register memory order (big-endian).

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
