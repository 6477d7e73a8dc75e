// cmd/vrfsim/main_test.go
package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/vrf-gateway/internal/adapter"
	"github.com/tamzrod/vrf-gateway/internal/codec"
)

func TestSeed_EachKindScansBack(t *testing.T) {
	for kind, want := range map[string]int{"solo": 1, "light": 40, "pro": 5} {
		t.Run(kind, func(t *testing.T) {
			bank, err := seed(kind, 1, 1, want)
			require.NoError(t, err)

			a, err := adapter.New(kind, zerolog.Nop())
			require.NoError(t, err)

			addrs := a.ScanDevices(bank)
			require.Len(t, addrs, want)

			st := a.ReadStatus(bank, addrs[0])
			assert.True(t, st.Available)
			assert.Equal(t, 22, st.TargetTemp)

			mode, ok := a.Codec().DecodeMode(st.ModeCode)
			assert.True(t, ok)
			assert.Equal(t, codec.ModeCool, mode)
		})
	}
}

func TestSeed_Rejects(t *testing.T) {
	_, err := seed("split", 1, 1, 1)
	assert.Error(t, err)

	_, err = seed("pro", 1, 1, adapter.ProMaxUnits+1)
	assert.Error(t, err)

	_, err = seed("light", 1, 1, 0)
	assert.Error(t, err)
}
