// internal/simulator/bank.go
package simulator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tamzrod/vrf-gateway/internal/transport"
)

// ErrOffline is returned for reads or writes that touch a failed range.
var ErrOffline = errors.New("simulator: no response")

// Write records one register write seen by the bank.
type Write struct {
	Addr  uint16
	Value uint16
}

// WriteHook is called after every register write with the bank lock
// released. It may call back into the bank.
type WriteHook func(b *Bank, addr, value uint16)

// Bank is an in-memory holding register space. Unset registers read
// as zero. It implements transport.Client so adapters can be driven
// against it directly.
type Bank struct {
	mu     sync.Mutex
	regs   map[uint16]uint16
	failed map[uint16]bool
	down   bool
	writes []Write
	reads  int
	hook   WriteHook
}

var _ transport.Client = (*Bank)(nil)

// NewBank returns an empty bank.
func NewBank() *Bank {
	return &Bank{
		regs:   make(map[uint16]uint16),
		failed: make(map[uint16]bool),
	}
}

// Set stores values starting at addr.
func (b *Bank) Set(addr uint16, values ...uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, v := range values {
		b.regs[addr+uint16(i)] = v
	}
}

// Get returns count registers starting at addr, ignoring failures.
func (b *Bank) Get(addr, count uint16) []uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]uint16, count)
	for i := range out {
		out[i] = b.regs[addr+uint16(i)]
	}
	return out
}

// Clear zeroes count registers starting at addr.
func (b *Bank) Clear(addr, count uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := uint16(0); i < count; i++ {
		delete(b.regs, addr+i)
	}
}

// Fail makes any access touching [addr, addr+count) fail.
func (b *Bank) Fail(addr, count uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := uint16(0); i < count; i++ {
		b.failed[addr+i] = true
	}
}

// Heal removes every injected failure.
func (b *Bank) Heal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = make(map[uint16]bool)
	b.down = false
}

// SetDown makes every access fail while down is true.
func (b *Bank) SetDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

// OnWrite installs a hook called after each register write.
func (b *Bank) OnWrite(h WriteHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = h
}

// Writes returns the writes seen so far.
func (b *Bank) Writes() []Write {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Write, len(b.writes))
	copy(out, b.writes)
	return out
}

// ResetWrites forgets recorded writes.
func (b *Bank) ResetWrites() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = nil
}

// Reads returns the number of read requests served or refused.
func (b *Bank) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}

func (b *Bank) blocked(addr, count uint16) bool {
	if b.down {
		return true
	}
	for i := uint16(0); i < count; i++ {
		if b.failed[addr+i] {
			return true
		}
	}
	return false
}

// ---- transport.Client ----

func (b *Bank) Connect() error { return nil }

func (b *Bank) ReadHoldingRegisters(addr, count uint16) ([]uint16, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reads++
	if b.blocked(addr, count) {
		return nil, fmt.Errorf("read addr=%d qty=%d: %w", addr, count, ErrOffline)
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = b.regs[addr+uint16(i)]
	}
	return out, nil
}

func (b *Bank) WriteRegister(addr, value uint16) error {
	return b.WriteRegisters(addr, []uint16{value})
}

func (b *Bank) WriteRegisters(addr uint16, values []uint16) error {
	b.mu.Lock()
	if b.blocked(addr, uint16(len(values))) {
		b.mu.Unlock()
		return fmt.Errorf("write addr=%d qty=%d: %w", addr, len(values), ErrOffline)
	}
	for i, v := range values {
		b.regs[addr+uint16(i)] = v
		b.writes = append(b.writes, Write{Addr: addr + uint16(i), Value: v})
	}
	hook := b.hook
	b.mu.Unlock()

	if hook != nil {
		for i, v := range values {
			hook(b, addr+uint16(i), v)
		}
	}
	return nil
}
