// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package lumidoxdevice implements the stateful controller session:
// remote-mode gating, arm/fire transitions, stage-parameter retrieval
// and identity assembly, layered on top of pkg/lumidoxproto.
package lumidoxdevice

import "github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"

// RemoteState is a tagged variant of the controller's remote-mode
// state, so illegal transitions are unrepresentable at the call site
// rather than tracked as a free integer.
type RemoteState int

const (
	// LocalUnknown is the state a freshly opened Session starts in:
	// the host doesn't yet know whether the controller is in remote
	// mode or under front-panel control.
	LocalUnknown RemoteState = iota
	RemoteOff
	RemoteOutputOff
	RemoteArmed
	RemoteFiring
)

func (s RemoteState) String() string {
	switch s {
	case LocalUnknown:
		return "LocalUnknown"
	case RemoteOff:
		return "RemoteOff"
	case RemoteOutputOff:
		return "RemoteOutputOff"
	case RemoteArmed:
		return "RemoteArmed"
	case RemoteFiring:
		return "RemoteFiring"
	default:
		return "Invalid"
	}
}

// IsRemote reports whether s is a state gated operations may proceed
// from: RemoteOutputOff, RemoteArmed or RemoteFiring. RemoteOff is
// deliberately excluded: once the session has entered RemoteOff, every
// subsequent non-0x15 command is locally rejected rather than sent.
func (s RemoteState) IsRemote() bool {
	return s == RemoteOutputOff || s == RemoteArmed || s == RemoteFiring
}

// RemoteMode is the argument to EnterRemote: the destination state for
// a command-0x15 write.
type RemoteMode int

const (
	ModeOff RemoteMode = iota
	ModeOutputOff
	ModeArmed
	ModeFiring
)

// writeValue returns the 0x15 payload for mode and the RemoteState it
// produces on a successful acknowledgement.
func (m RemoteMode) writeValue() (uint16, RemoteState) {
	switch m {
	case ModeOff:
		return lumidoxproto.RemoteWriteOff, RemoteOff
	case ModeOutputOff:
		return lumidoxproto.RemoteWriteOutputOff, RemoteOutputOff
	case ModeArmed:
		return lumidoxproto.RemoteWriteArmed, RemoteArmed
	case ModeFiring:
		return lumidoxproto.RemoteWriteFiring, RemoteFiring
	default:
		return lumidoxproto.RemoteWriteOff, RemoteOff
	}
}

// requiresRemoteGate reports whether a 0x15 write of mode needs the
// session to already be in a Remote* state: everything
// except 0x15 with payload 1|2|3 requires Remote*; ModeOff (payload 0)
// is therefore gated, the other three are not.
func (m RemoteMode) requiresRemoteGate() bool {
	return m == ModeOff
}
