// cmd/vrfgw/set.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tamzrod/vrf-gateway/internal/codec"
	"github.com/tamzrod/vrf-gateway/internal/config"
	"github.com/tamzrod/vrf-gateway/internal/poller"
	"github.com/tamzrod/vrf-gateway/internal/status"
	"github.com/tamzrod/vrf-gateway/internal/transport"
	tmodbus "github.com/tamzrod/vrf-gateway/internal/transport/modbus"
)

// set runs one unit command against a gateway and prints what the
// unit reports afterwards.
func set(path, gatewayID, unit, setting string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	log := newLogger(cfg.VRF.Log)

	var gw *config.GatewayConfig
	for i := range cfg.VRF.Gateways {
		if cfg.VRF.Gateways[i].ID == gatewayID {
			gw = &cfg.VRF.Gateways[i]
			break
		}
	}
	if gw == nil {
		return fmt.Errorf("gateway %q not in config", gatewayID)
	}

	a, err := status.ParseAddress(unit)
	if err != nil {
		return err
	}

	links := transport.NewRegistry(tmodbus.Dial, log)
	c, closeLink, err := poller.Build(*gw, links, log)
	if err != nil {
		return err
	}
	defer closeLink()

	if err := c.Setup(); err != nil {
		return err
	}
	if err := applySetting(c, a, setting); err != nil {
		return err
	}

	st, _ := c.Status(a)
	fmt.Printf("%s %s: available=%t power=%t mode=0x%02x target=%d fan=0x%02x swing=0x%02x\n",
		gw.ID, a, st.Available, st.Power, st.ModeCode, st.TargetTemp, st.FanCode, st.SwingCode)
	return nil
}

// applySetting parses field=value and issues the matching command.
func applySetting(c *poller.Coordinator, a status.Address, setting string) error {
	field, value, ok := strings.Cut(setting, "=")
	if !ok {
		return fmt.Errorf("setting %q: want field=value", setting)
	}
	value = strings.ToLower(strings.TrimSpace(value))

	switch field {
	case "power":
		switch value {
		case "on":
			return c.SetPower(a, true)
		case "off":
			return c.SetPower(a, false)
		}
		return fmt.Errorf("power %q: want on or off", value)
	case "mode":
		return c.SetHVACMode(a, value)
	case "temp":
		t, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("temp %q: %w", value, err)
		}
		return c.SetTemperature(a, t)
	case "fan":
		f, ok := codec.ParseFan(value)
		if !ok {
			return fmt.Errorf("unknown fan speed %q", value)
		}
		return c.SetFan(a, f)
	case "swing":
		s, ok := codec.ParseSwing(value)
		if !ok {
			return fmt.Errorf("unknown swing %q", value)
		}
		return c.SetSwing(a, s)
	}
	return fmt.Errorf("unknown field %q", field)
}
