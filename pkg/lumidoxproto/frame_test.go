// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxproto

import (
	"bytes"
	"testing"
)

// TestEncodeCommandLiterals checks the two worked command-encoding examples.
func TestEncodeCommandLiterals(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want []byte
	}{
		{
			name: "command 0x04 read",
			cmd:  Command{Code: 0x04, Data: 0x0000},
			want: []byte{0x2A, 0x30, 0x34, 0x30, 0x30, 0x30, 0x30, 0x32, 0x34, 0x0D},
		},
		{
			name: "set remote output-off",
			cmd:  Command{Code: 0x15, Data: 0x0001},
			want: []byte{0x2A, 0x31, 0x35, 0x30, 0x30, 0x30, 0x31, 0x32, 0x37, 0x0D},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeCommand(tt.cmd)
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("EncodeCommand(%+v) = % X, want % X", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestChecksumFormula(t *testing.T) {
	// For all 6-character CCDDDD sequences, checksum = sum(ord) mod 256.
	cases := []string{"040000", "150001", "1502ff", "ffffff"}
	for _, s := range cases {
		var want uint32
		for _, c := range []byte(s) {
			want += uint32(c)
		}
		want &= 0xff

		got := checksumOf([]byte(s))
		if uint32(got) != want {
			t.Errorf("checksumOf(%q) = %d, want %d", s, got, want)
		}
	}
}

func TestDecodeResponseRoundTrip(t *testing.T) {
	// A loopback that echoes *DDDDSSACK with DDDD=d and correct SS
	// round-trips through decode.
	for _, data := range []uint16{0x0000, 0x0001, 0x0bb8, 0xffff} {
		ddddBuf := make([]byte, 4)
		encodeHexUint16(ddddBuf, data)
		ss := checksumOf(ddddBuf)
		ssBuf := make([]byte, 2)
		encodeHexByte(ssBuf, ss)

		frame := append([]byte{STX}, ddddBuf...)
		frame = append(frame, ssBuf...)
		frame = append(frame, ACK)

		resp := DecodeResponse(frame)
		if resp.Kind != Ok {
			t.Fatalf("DecodeResponse(%x) kind = %v, want Ok", frame, resp.Kind)
		}
		if resp.Data != data {
			t.Fatalf("DecodeResponse(%x) data = %04x, want %04x", frame, resp.Data, data)
		}
	}
}

func TestDecodeResponseMalformedChecksum(t *testing.T) {
	// SS != checksum(DDDD) must yield Malformed.
	frame := []byte{STX, '0', '0', '0', '1', 'f', 'f', ACK}
	resp := DecodeResponse(frame)
	if resp.Kind != Malformed {
		t.Fatalf("kind = %v, want Malformed", resp.Kind)
	}
}

func TestDecodeResponseChecksumEchoSentinel(t *testing.T) {
	// Reject-sentinel response regardless of DDDD content.
	frame := []byte{0x2A, 0x58, 0x58, 0x58, 0x58, 0x36, 0x30, 0x5E}
	resp := DecodeResponse(frame)
	if resp.Kind != ChecksumEcho {
		t.Fatalf("kind = %v, want ChecksumEcho", resp.Kind)
	}
}

func TestDecodeResponseShapeFailures(t *testing.T) {
	tests := [][]byte{
		nil,
		{STX, '0', '0', '0', '1', 'f', 'f'}, // too short, no ACK
		{0x00, '0', '0', '0', '1', '6', '0', ACK}, // bad STX
		{STX, '0', '0', '0', '1', '6', '0', 0x00}, // bad terminator
		{STX, 'g', '0', '0', '1', 'f', 'f', ACK},  // non-hex data
	}
	for i, frame := range tests {
		resp := DecodeResponse(frame)
		if resp.Kind != Malformed {
			t.Errorf("case %d: kind = %v, want Malformed", i, resp.Kind)
		}
	}
}
