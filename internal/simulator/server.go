// internal/simulator/server.go
package simulator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/simonvetter/modbus"
)

// Server exposes banks over Modbus TCP, one bank per unit id.
type Server struct {
	log zerolog.Logger
	srv *modbus.ModbusServer

	mu    sync.RWMutex
	banks map[uint8]*Bank
}

// Config is the minimal server config.
type Config struct {
	// Listen is a host:port, e.g. "127.0.0.1:5502".
	Listen     string
	MaxClients uint
	Timeout    time.Duration
}

// NewServer builds a server. Banks are attached with Attach.
func NewServer(cfg Config, log zerolog.Logger) (*Server, error) {
	if cfg.Listen == "" {
		return nil, errors.New("simulator: listen address required")
	}
	if cfg.MaxClients == 0 {
		cfg.MaxClients = 8
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	s := &Server{
		log:   log,
		banks: make(map[uint8]*Bank),
	}

	srv, err := modbus.NewServer(&modbus.ServerConfiguration{
		URL:        "tcp://" + cfg.Listen,
		Timeout:    cfg.Timeout,
		MaxClients: cfg.MaxClients,
	}, s)
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	s.srv = srv
	return s, nil
}

// Attach serves b under unit id.
func (s *Server) Attach(unitID uint8, b *Bank) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[unitID] = b
}

// Start begins accepting connections.
func (s *Server) Start() error {
	return s.srv.Start()
}

// Stop closes the listener and all client connections.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

func (s *Server) bank(unitID uint8) *Bank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banks[unitID]
}

// ---- modbus.RequestHandler ----

func (s *Server) HandleCoils(req *modbus.CoilsRequest) ([]bool, error) {
	return nil, modbus.ErrIllegalFunction
}

func (s *Server) HandleDiscreteInputs(req *modbus.DiscreteInputsRequest) ([]bool, error) {
	return nil, modbus.ErrIllegalFunction
}

func (s *Server) HandleInputRegisters(req *modbus.InputRegistersRequest) ([]uint16, error) {
	return nil, modbus.ErrIllegalFunction
}

func (s *Server) HandleHoldingRegisters(req *modbus.HoldingRegistersRequest) ([]uint16, error) {
	b := s.bank(req.UnitId)
	if b == nil {
		return nil, modbus.ErrGWTargetFailedToRespond
	}

	if req.IsWrite {
		if err := b.WriteRegisters(req.Addr, req.Args); err != nil {
			s.log.Debug().Err(err).Uint8("unit", req.UnitId).Msg("write refused")
			return nil, modbus.ErrIllegalDataAddress
		}
		return nil, nil
	}

	regs, err := b.ReadHoldingRegisters(req.Addr, req.Quantity)
	if err != nil {
		s.log.Debug().Err(err).Uint8("unit", req.UnitId).Msg("read refused")
		return nil, modbus.ErrIllegalDataAddress
	}
	return regs, nil
}
