// internal/status/unit.go
package status

import (
	"fmt"
	"time"
)

// Fault is the raw fault reported by a unit. Some gateways report a
// numeric code, others a short ASCII code; zero value means no fault.
type Fault struct {
	Code uint16
	Text string
}

// Active reports whether a fault is present.
func (f Fault) Active() bool {
	return f.Code != 0 || f.Text != ""
}

func (f Fault) String() string {
	switch {
	case f.Text != "":
		return f.Text
	case f.Code != 0:
		return fmt.Sprintf("%d", f.Code)
	default:
		return ""
	}
}

// UnitStatus is one unit's state as read from the bus.
// It is replaced wholesale on every read.
//
// A status with Available=false must not be used as a source of
// defaults for control writes.
type UnitStatus struct {
	Available bool

	Power       bool
	ModeCode    uint8
	TargetTemp  int
	CurrentTemp *int
	FanCode     uint8
	SwingCode   uint8
	Fault       Fault

	// Reported by the Pro gateway only.
	Humidity       *int
	RuntimeMinutes *int

	UpdatedAt time.Time
}

// Unavailable is a status with no trusted fields.
func Unavailable() UnitStatus {
	return UnitStatus{}
}

// CarryForward keeps the last values but marks them unavailable,
// so consumers can still show "last seen" data.
func (u UnitStatus) CarryForward() UnitStatus {
	u.Available = false
	return u
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }
