// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxdevice

import (
	"time"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"
	"github.com/lumidox/lumidox2ctl/pkg/lumidoxunits"
)

// DefaultTimeout is the per-transaction timeout used for ordinary
// session operations.
const DefaultTimeout = 1 * time.Second

// Session is the stateful controller abstraction: one Transport, the
// current RemoteState, cached identity, and cached per-stage
// parameters. A Session is not safe for concurrent use; commands are
// strictly sequential.
type Session struct {
	engine   *lumidoxproto.Engine
	state    RemoteState
	timeout  time.Duration
	identity *DeviceIdentity
	stages   [6]*lumidoxunits.StageParameters // index 1..5 used
	closed   bool
}

// Open constructs a Session over an already-open Transport, in state
// LocalUnknown.
func Open(transport lumidoxproto.Transport) *Session {
	return &Session{
		engine:  lumidoxproto.NewEngine(transport, lumidoxproto.DefaultOperationalConfig()),
		state:   LocalUnknown,
		timeout: DefaultTimeout,
	}
}

// State returns the session's last recorded RemoteState.
func (s *Session) State() RemoteState {
	return s.state
}

// SetTimeout overrides the per-transaction timeout used for subsequent
// operations (default DefaultTimeout).
func (s *Session) SetTimeout(d time.Duration) {
	s.timeout = d
}

// execute runs a single command through the engine and classifies the
// result into a protocol-level error, translating engine-level
// transport errors (including ErrConnectionClosed) unchanged.
func (s *Session) execute(code uint8, data uint16) (uint16, error) {
	if s.closed {
		return 0, lumidoxproto.ErrConnectionClosed
	}

	resp, err := s.engine.Execute(lumidoxproto.Command{Code: code, Data: data}, s.timeout)
	if err != nil {
		return 0, err
	}

	switch resp.Kind {
	case lumidoxproto.Ok:
		return resp.Data, nil
	case lumidoxproto.ChecksumEcho:
		return 0, lumidoxproto.ErrChecksumRejected
	case lumidoxproto.Timeout:
		return 0, lumidoxproto.ErrTimeout
	default:
		return 0, lumidoxproto.ErrMalformedFrame
	}
}

// gatedExecute enforces the remote-mode precondition before
// touching the wire: any operation that is not 0x15 with payload
// 1|2|3 requires the session to already be in a Remote* state.
func (s *Session) gatedExecute(code uint8, data uint16) (uint16, error) {
	if !s.state.IsRemote() {
		return 0, newPreconditionError("operation 0x%02x requires a Remote* state, session is %s", code, s.state)
	}
	return s.execute(code, data)
}

// EnterRemote issues command 0x15 with the payload for mode. Entering
// ModeOutputOff/ModeArmed/ModeFiring is never gated (it is the
// mechanism by which the session first leaves LocalUnknown);
// ModeOff requires the session already be in a Remote* state.
func (s *Session) EnterRemote(mode RemoteMode) error {
	value, next := mode.writeValue()

	var err error
	if mode.requiresRemoteGate() {
		_, err = s.gatedExecute(lumidoxproto.CmdRemoteStateWrite, value)
	} else {
		_, err = s.execute(lumidoxproto.CmdRemoteStateWrite, value)
	}
	if err != nil {
		return err
	}

	s.state = next
	return nil
}

// Arm transitions to RemoteArmed.
func (s *Session) Arm() error {
	return s.EnterRemote(ModeArmed)
}

// TurnOff is the preferred safe-stop: command 0x15 with RemoteOutputOff.
func (s *Session) TurnOff() error {
	return s.EnterRemote(ModeOutputOff)
}

// TurnOffHard is an alternative stop form: a direct fire-current write
// of zero, bypassing the remote-state transition. It is gated like any
// other operational command.
func (s *Session) TurnOffHard() error {
	_, err := s.gatedExecute(lumidoxproto.CmdFireCurrentWrite, 0)
	return err
}

// Close attempts a best-effort 0x15:0 (RemoteOff) if the session is in
// any Remote* state, then releases the transport. Close never raises;
// any error from the farewell command or the transport is swallowed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	if s.state.IsRemote() {
		_, _ = s.execute(lumidoxproto.CmdRemoteStateWrite, lumidoxproto.RemoteWriteOff)
		s.state = RemoteOff
	}
	s.closed = true
	s.stages = [6]*lumidoxunits.StageParameters{}
	_ = s.engine.Close()
	return nil
}

// Ping confirms the controller is still responding with a single
// firmware-revision read, without reading model, serial or wavelength
// the way ReadIdentity does. Its result is not cached.
func (s *Session) Ping() error {
	_, err := s.gatedExecute(lumidoxproto.CmdFirmwareRevision, 0)
	return err
}

// ReadIdentity reads firmware revision, model, serial and wavelength
// strings. If the session is still LocalUnknown it first enters
// RemoteOutputOff. The result is cached; subsequent
// calls return the cached value without touching the wire.
func (s *Session) ReadIdentity() (*DeviceIdentity, error) {
	if s.identity != nil {
		return s.identity, nil
	}

	if s.state == LocalUnknown {
		if err := s.EnterRemote(ModeOutputOff); err != nil {
			return nil, err
		}
	}

	fw, err := s.gatedExecute(lumidoxproto.CmdFirmwareRevision, 0)
	if err != nil {
		return nil, err
	}

	model := make([]uint16, lumidoxproto.CmdModelCharCount)
	for i := range model {
		v, err := s.gatedExecute(lumidoxproto.CmdModelCharBase+uint8(i), 0)
		if err != nil {
			return nil, err
		}
		model[i] = v
	}

	serial := make([]uint16, lumidoxproto.CmdSerialCharCount)
	for i := range serial {
		v, err := s.gatedExecute(lumidoxproto.CmdSerialCharBase+uint8(i), 0)
		if err != nil {
			return nil, err
		}
		serial[i] = v
	}

	wavelength := make([]uint16, len(lumidoxproto.CmdWavelengthChars))
	for i, code := range lumidoxproto.CmdWavelengthChars {
		v, err := s.gatedExecute(code, 0)
		if err != nil {
			return nil, err
		}
		wavelength[i] = v
	}

	identity := &DeviceIdentity{
		FirmwareRevision: fw,
		Model:            assembleChars(model),
		Serial:           assembleChars(serial),
		Wavelength:       assembleChars(wavelength),
	}
	s.identity = identity
	return identity, nil
}

// ReadStage reads and assembles stage n's parameters (1..=5). The
// result is immutable after first retrieval: subsequent calls return
// the cached value; the cache is only invalidated
// by closing the session.
func (s *Session) ReadStage(n int) (*lumidoxunits.StageParameters, error) {
	if n < 1 || n > 5 {
		return nil, newPreconditionError("stage %d out of range (must be 1..5)", n)
	}
	if s.stages[n] != nil {
		return s.stages[n], nil
	}

	codes, err := lumidoxunits.StageCommands(n)
	if err != nil {
		return nil, err
	}

	var raw [8]uint16
	for i, code := range codes {
		v, err := s.gatedExecute(code, 0)
		if err != nil {
			return nil, err
		}
		raw[i] = v
	}

	sp := lumidoxunits.AssembleStageParameters(raw)
	s.stages[n] = &sp
	return &sp, nil
}

// stage5FireCurrent returns the cached stage-5 fire current if known,
// and whether it is known. Used to bound FireCurrent.
func (s *Session) stage5FireCurrent() (uint16, bool) {
	if s.stages[5] == nil {
		return 0, false
	}
	return s.stages[5].FireCurrentMA, true
}

// FireStage ensures stage n's fire current is known (reading only its
// fire-current command if the stage is not cached), transitions to RemoteFiring if not already there, then
// writes that current to command 0x41.
func (s *Session) FireStage(n int) error {
	codes, err := lumidoxunits.StageCommands(n)
	if err != nil {
		return err
	}
	var fireMA uint16
	if s.stages[n] != nil {
		fireMA = s.stages[n].FireCurrentMA
	} else if fireMA, err = s.gatedExecute(codes[lumidoxproto.StageOffsetFireCurrent], 0); err != nil {
		return err
	}

	if s.state != RemoteFiring {
		if err := s.EnterRemote(ModeFiring); err != nil {
			return err
		}
	}

	_, err = s.gatedExecute(lumidoxproto.CmdFireCurrentWrite, fireMA)
	return err
}

// FireCurrent validates 0 < mA <= stage5 fire current (when known),
// ensures RemoteFiring, then writes mA to command 0x41. mA == 0 is
// accepted and produces the same observable effect as TurnOffHard.
func (s *Session) FireCurrent(mA uint16) error {
	if mA > 0 {
		if limit, known := s.stage5FireCurrent(); known && mA > limit {
			return newPreconditionError("fire current %d mA exceeds stage-5 limit %d mA", mA, limit)
		}
	}

	if s.state != RemoteFiring {
		if err := s.EnterRemote(ModeFiring); err != nil {
			return err
		}
	}

	_, err := s.gatedExecute(lumidoxproto.CmdFireCurrentWrite, mA)
	return err
}
