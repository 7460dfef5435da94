// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxproto

import (
	"time"

	"go.bug.st/serial"
)

// Transport performs a single write-then-read-until-terminator
// transaction. It does not parse frames; that is the Engine's job.
// Implementations own exclusive access to one underlying link and are
// not safe for concurrent use.
type Transport interface {
	// Transact writes b, then reads bytes until ACK is seen or timeout
	// elapses. On timeout it returns ErrTimeout and discards any
	// partial read. Close is idempotent and Transact after Close
	// returns ErrConnectionClosed.
	Transact(b []byte, timeout time.Duration) ([]byte, error)
	Close() error
}

// SerialTransport owns one open serial port at one baud rate,
// configured 8N1 with no flow control, mirroring the Mode built in
// Thermoquad/heliostat's OpenSerialConnection.
type SerialTransport struct {
	port   serial.Port
	closed bool
}

// OpenSerialTransport opens portName at baudRate with the framing this
// protocol requires (8 data bits, no parity, 1 stop bit, no flow
// control).
func OpenSerialTransport(portName string, baudRate int) (*SerialTransport, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, &TransactionError{Op: "open " + portName, Err: err}
	}

	return &SerialTransport{port: port}, nil
}

// Transact flushes residual input, writes b, then reads until ACK or
// timeout. It reads one byte at a time so it can stop precisely at the
// terminator without over-reading into the next frame.
func (t *SerialTransport) Transact(b []byte, timeout time.Duration) ([]byte, error) {
	if t.closed {
		return nil, ErrConnectionClosed
	}

	if err := t.port.ResetInputBuffer(); err != nil {
		return nil, &TransactionError{Op: "flush input", Err: err}
	}

	if err := t.port.SetReadTimeout(timeout); err != nil {
		return nil, &TransactionError{Op: "set read timeout", Err: err}
	}

	if _, err := t.port.Write(b); err != nil {
		return nil, &TransactionError{Op: "write", Err: err}
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 0, 16)
	one := make([]byte, 1)

	for {
		if time.Now().After(deadline) {
			_ = t.port.ResetInputBuffer()
			return nil, ErrTimeout
		}

		n, err := t.port.Read(one)
		if err != nil {
			return nil, &TransactionError{Op: "read", Err: err}
		}
		if n == 0 {
			// SetReadTimeout on the underlying port already enforces
			// the per-read deadline; a zero-byte read here means the
			// port's own timeout fired.
			_ = t.port.ResetInputBuffer()
			return nil, ErrTimeout
		}

		buf = append(buf, one[0])
		if one[0] == ACK {
			return buf, nil
		}
	}
}

// Close releases the underlying OS handle. Close is idempotent.
func (t *SerialTransport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if t.port == nil {
		return nil
	}
	return t.port.Close()
}

var _ Transport = (*SerialTransport)(nil)
