// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxdevice

import (
	"testing"
	"time"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"
)

// scriptedTransport replays a fixed sequence of ACK frames, one per
// Transact call, and records how many transactions it served.
type scriptedTransport struct {
	frames [][]byte
	calls  int
	closed bool
}

func (t *scriptedTransport) Transact(frame []byte, timeout time.Duration) ([]byte, error) {
	if t.calls >= len(t.frames) {
		panic("scriptedTransport: out of scripted frames")
	}
	resp := t.frames[t.calls]
	t.calls++
	return resp, nil
}

func (t *scriptedTransport) Close() error {
	t.closed = true
	return nil
}

// okFrame builds a well-formed STX DDDD SS ACK response frame for
// data, with a correctly computed checksum, the way the controller
// would reply to a successful command.
func okFrame(data uint16) []byte {
	const hexDigits = "0123456789abcdef"

	dddd := []byte{
		hexDigits[(data>>12)&0xf],
		hexDigits[(data>>8)&0xf],
		hexDigits[(data>>4)&0xf],
		hexDigits[data&0xf],
	}

	var sum uint32
	for _, c := range dddd {
		sum += uint32(c)
	}
	ss := uint8(sum & 0xff)

	frame := make([]byte, 0, 8)
	frame = append(frame, lumidoxproto.STX)
	frame = append(frame, dddd...)
	frame = append(frame, hexDigits[ss>>4], hexDigits[ss&0x0f])
	frame = append(frame, lumidoxproto.ACK)
	return frame
}

func TestSessionGatedOperationRejectsWithoutWireTouch(t *testing.T) {
	tr := &scriptedTransport{}
	s := Open(tr)

	_, err := s.ReadStage(1)
	if err == nil {
		t.Fatal("ReadStage on LocalUnknown session: want precondition error, got nil")
	}
	if _, ok := err.(*PreconditionError); !ok {
		t.Fatalf("err type = %T, want *PreconditionError", err)
	}
	if tr.calls != 0 {
		t.Errorf("transport calls = %d, want 0 (precondition must reject before touching the wire)", tr.calls)
	}
}

func TestSessionGatedOperationRejectsAfterRemoteOff(t *testing.T) {
	tr := &scriptedTransport{frames: [][]byte{
		okFrame(2), // enter RemoteArmed
		okFrame(0), // enter RemoteOff
	}}
	s := Open(tr)
	if err := s.EnterRemote(ModeArmed); err != nil {
		t.Fatalf("EnterRemote(ModeArmed): %v", err)
	}
	if err := s.EnterRemote(ModeOff); err != nil {
		t.Fatalf("EnterRemote(ModeOff): %v", err)
	}
	if s.State() != RemoteOff {
		t.Fatalf("state after EnterRemote(ModeOff) = %v, want RemoteOff", s.State())
	}
	before := tr.calls

	_, err := s.ReadStage(1)
	if err == nil {
		t.Fatal("ReadStage after RemoteOff: want precondition error, got nil")
	}
	if _, ok := err.(*PreconditionError); !ok {
		t.Fatalf("err type = %T, want *PreconditionError", err)
	}
	if tr.calls != before {
		t.Errorf("transport calls = %d, want %d (RemoteOff must reject before touching the wire)", tr.calls, before)
	}
}

func TestSessionFireStageCachedTakesTwoTransactions(t *testing.T) {
	tr := &scriptedTransport{frames: [][]byte{
		okFrame(1),      // 0x15:1 -> RemoteOutputOff (enter remote)
		okFrame(0x0320), // arm current
		okFrame(0x0bb8), // fire current
		okFrame(2400),   // vlim
		okFrame(1200),   // vstart
		okFrame(150),    // ptot
		okFrame(30),     // pled
		okFrame(1),      // units_total
		okFrame(9),      // units_per_led
		okFrame(3),      // 0x15:3 -> RemoteFiring
		okFrame(0x0bb8), // fire-current write ack
	}}
	s := Open(tr)

	if err := s.EnterRemote(ModeOutputOff); err != nil {
		t.Fatalf("EnterRemote: %v", err)
	}
	if _, err := s.ReadStage(1); err != nil {
		t.Fatalf("ReadStage(1) uncached: %v", err)
	}
	before := tr.calls

	if err := s.FireStage(1); err != nil {
		t.Fatalf("FireStage(1): %v", err)
	}
	after := tr.calls

	if got := after - before; got != 2 {
		t.Errorf("FireStage with a cached stage issued %d transactions, want 2 (enter-firing + fire-write)", got)
	}
}

func TestSessionFireStageUncachedTakesThreeTransactions(t *testing.T) {
	tr := &scriptedTransport{frames: [][]byte{
		okFrame(1),      // enter RemoteOutputOff
		okFrame(0x0bb8), // stage-1 fire current read
		okFrame(3),      // enter RemoteFiring
		okFrame(0x0bb8), // fire-current write ack
	}}
	s := Open(tr)
	if err := s.EnterRemote(ModeOutputOff); err != nil {
		t.Fatalf("EnterRemote: %v", err)
	}
	before := tr.calls

	if err := s.FireStage(1); err != nil {
		t.Fatalf("FireStage(1) uncached: %v", err)
	}
	after := tr.calls

	if got := after - before; got != 3 {
		t.Errorf("FireStage with an uncached stage issued %d transactions, want 3 (fire-current read + enter-firing + fire-write)", got)
	}
}

func TestSessionCloseIssuesExactlyOneRemoteOffWrite(t *testing.T) {
	tr := &scriptedTransport{frames: [][]byte{
		okFrame(2), // enter RemoteArmed
		okFrame(0), // farewell 0x15:0
	}}
	s := Open(tr)
	if err := s.EnterRemote(ModeArmed); err != nil {
		t.Fatalf("EnterRemote: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if tr.calls != 2 {
		t.Errorf("transport calls after Close = %d, want 2 (enter + farewell)", tr.calls)
	}
	if !tr.closed {
		t.Error("Close did not release the transport")
	}

	if err := s.Close(); err != nil {
		t.Errorf("second Close: want nil, got %v", err)
	}
	if tr.calls != 2 {
		t.Errorf("second Close issued more transactions: calls = %d, want 2", tr.calls)
	}
}

func TestSessionFireCurrentZeroIsAccepted(t *testing.T) {
	tr := &scriptedTransport{frames: [][]byte{
		okFrame(3), // enter RemoteFiring
		okFrame(0), // fire-current write of 0
	}}
	s := Open(tr)
	if err := s.EnterRemote(ModeFiring); err != nil {
		t.Fatalf("EnterRemote: %v", err)
	}

	if err := s.FireCurrent(0); err != nil {
		t.Errorf("FireCurrent(0): want nil, got %v", err)
	}
}

func TestSessionFireCurrentAboveStageFiveLimitRejected(t *testing.T) {
	tr := &scriptedTransport{frames: [][]byte{
		okFrame(3),      // enter RemoteFiring
		okFrame(0x0100), // stage5 arm current
		okFrame(0x0200), // stage5 fire current (512 mA)
		okFrame(2400),
		okFrame(1200),
		okFrame(150),
		okFrame(30),
		okFrame(1),
		okFrame(9),
	}}
	s := Open(tr)
	if err := s.EnterRemote(ModeFiring); err != nil {
		t.Fatalf("EnterRemote: %v", err)
	}
	if _, err := s.ReadStage(5); err != nil {
		t.Fatalf("ReadStage(5): %v", err)
	}

	err := s.FireCurrent(0x0201)
	if err == nil {
		t.Fatal("FireCurrent above stage-5 limit: want error, got nil")
	}
	if _, ok := err.(*PreconditionError); !ok {
		t.Fatalf("err type = %T, want *PreconditionError", err)
	}
}

func TestSessionFireStageLiteralScenario(t *testing.T) {
	// Scenario: stage 1 fire current 0x0BB8 (3000 mA).
	tr := &scriptedTransport{frames: [][]byte{
		okFrame(1),      // enter RemoteOutputOff
		okFrame(0x0320), // arm current
		okFrame(0x0bb8), // fire current = 3000 mA
		okFrame(2400),
		okFrame(1200),
		okFrame(150),
		okFrame(30),
		okFrame(1),
		okFrame(9),
		okFrame(3),      // enter RemoteFiring
		okFrame(0x0bb8), // fire-current write ack
	}}
	s := Open(tr)
	if err := s.EnterRemote(ModeOutputOff); err != nil {
		t.Fatalf("EnterRemote: %v", err)
	}
	stage, err := s.ReadStage(1)
	if err != nil {
		t.Fatalf("ReadStage(1): %v", err)
	}
	if stage.FireCurrentMA != 3000 {
		t.Fatalf("stage 1 fire current = %d, want 3000", stage.FireCurrentMA)
	}

	if err := s.FireStage(1); err != nil {
		t.Fatalf("FireStage(1): %v", err)
	}
	if s.State() != RemoteFiring {
		t.Errorf("state after FireStage = %v, want RemoteFiring", s.State())
	}
}
