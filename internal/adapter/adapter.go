// internal/adapter/adapter.go
package adapter

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/status"
	"github.com/tamzrod/vrf-gateway/internal/transport"
)

var (
	// ErrUnsupported is returned by optional operations the gateway
	// family does not implement.
	ErrUnsupported = errors.New("adapter: operation not supported")
	// ErrUnknownKind is returned by New for unknown adapter kinds.
	ErrUnknownKind = errors.New("adapter: unknown kind")
)

// Kind names a gateway family in configuration.
type Kind string

const (
	KindSolo  Kind = "solo"
	KindLight Kind = "light"
	KindPro   Kind = "pro"
)

// Kinds lists the known kinds in probe order.
var Kinds = []Kind{KindLight, KindPro, KindSolo}

// Capabilities gates optional gateway-level actions.
type Capabilities struct {
	BrandWrite   bool
	Restart      bool
	FactoryReset bool
	SystemTime   bool
}

// Adapter translates logical unit operations into one gateway
// family's register map.
//
// Communication failures are routine: ScanDevices skips the slot,
// ReadStatus returns Available=false, writes return a wrapped
// transport error. None of them panic.
type Adapter interface {
	Kind() Kind
	Name() string
	MaxUnits() int
	Codec() codec.Profile
	BrandName(code uint8) string
	Capabilities() Capabilities

	ScanDevices(c transport.Client) []status.Address
	ReadStatus(c transport.Client, a status.Address) status.UnitStatus
	ReadIdentity(c transport.Client) (status.Identity, error)

	WritePower(c transport.Client, a status.Address, on bool) error
	WriteMode(c transport.Client, a status.Address, code uint8) error
	WriteTemperature(c transport.Client, a status.Address, temp int) error
	WriteFanSpeed(c transport.Client, a status.Address, code uint8) error
	WriteSwing(c transport.Client, a status.Address, code uint8) error

	WriteBrandCode(c transport.Client, brand uint8) error
	Restart(c transport.Client) error
	FactoryReset(c transport.Client) error
	SetSystemTime(c transport.Client, t time.Time) error
}

// New returns the adapter for kind.
func New(kind string, log zerolog.Logger) (Adapter, error) {
	log = log.With().Str("adapter", kind).Logger()

	switch Kind(kind) {
	case KindSolo:
		return NewSolo(log), nil
	case KindLight:
		return NewLight(log), nil
	case KindPro:
		return NewPro(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// optional provides the "unsupported" defaults for optional actions.
type optional struct {
	name string
}

func (o optional) Capabilities() Capabilities { return Capabilities{} }

func (o optional) WriteBrandCode(transport.Client, uint8) error {
	return o.unsupported("brand write")
}

func (o optional) Restart(transport.Client) error {
	return o.unsupported("restart")
}

func (o optional) FactoryReset(transport.Client) error {
	return o.unsupported("factory reset")
}

func (o optional) SetSystemTime(transport.Client, time.Time) error {
	return o.unsupported("system time")
}

func (o optional) unsupported(op string) error {
	return fmt.Errorf("%w: %s on %s", ErrUnsupported, op, o.name)
}
