// internal/status/address.go
package status

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Address identifies one indoor unit slot behind a gateway.
type Address struct {
	System uint8
	Index  uint8
}

// Key is the snapshot key, "system-index".
func (a Address) Key() string {
	return fmt.Sprintf("%d-%d", a.System, a.Index)
}

func (a Address) String() string { return a.Key() }

// Less orders addresses by system, then index.
func (a Address) Less(b Address) bool {
	if a.System != b.System {
		return a.System < b.System
	}
	return a.Index < b.Index
}

// ParseAddress parses a "system-index" key.
func ParseAddress(s string) (Address, error) {
	sys, idx, ok := strings.Cut(s, "-")
	if !ok {
		return Address{}, fmt.Errorf("status: bad unit key %q", s)
	}
	a, err := strconv.ParseUint(sys, 10, 8)
	if err != nil {
		return Address{}, fmt.Errorf("status: bad system in %q: %w", s, err)
	}
	b, err := strconv.ParseUint(idx, 10, 8)
	if err != nil {
		return Address{}, fmt.Errorf("status: bad index in %q: %w", s, err)
	}
	return Address{System: uint8(a), Index: uint8(b)}, nil
}

// SortAddresses sorts in place by system, then index.
func SortAddresses(as []Address) {
	sort.Slice(as, func(i, j int) bool { return as[i].Less(as[j]) })
}
