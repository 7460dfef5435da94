// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxproto

import (
	"errors"
	"time"
)

// EngineConfig tunes retry behavior for Engine.Execute.
type EngineConfig struct {
	// Attempts is the total number of tries for a transaction that
	// comes back Timeout or Malformed (1 means no retry).
	Attempts int
	// Backoff is the delay before a retry.
	Backoff time.Duration
}

// DefaultOperationalConfig is used for ordinary device-session calls:
// no retry, since a failed operational command should fail fast.
func DefaultOperationalConfig() EngineConfig {
	return EngineConfig{Attempts: 1, Backoff: 50 * time.Millisecond}
}

// DefaultDetectionConfig is used for detection probes, which tolerate
// one retry against a noisy or slow-to-wake line.
func DefaultDetectionConfig() EngineConfig {
	return EngineConfig{Attempts: 2, Backoff: 50 * time.Millisecond}
}

// Engine composes a Transport with the frame codec into typed
// request/response operations, classifying protocol-level failures.
type Engine struct {
	transport Transport
	config    EngineConfig
}

// NewEngine creates an Engine over an already-open Transport.
func NewEngine(transport Transport, config EngineConfig) *Engine {
	if config.Attempts < 1 {
		config.Attempts = 1
	}
	if config.Backoff <= 0 {
		config.Backoff = 50 * time.Millisecond
	}
	return &Engine{transport: transport, config: config}
}

// Execute encodes cmd, transacts it over the transport, and decodes
// the response. Timeout and Malformed responses are retried up to
// Attempts times with Backoff between tries; ChecksumEcho is never
// retried, since it indicates a caller bug rather than a line error.
//
// The returned error is non-nil only for transport-level failures
// (I/O errors, a closed connection) that are not protocol
// classifications; those are always reported via Response.Kind with a
// nil error.
func (e *Engine) Execute(cmd Command, timeout time.Duration) (Response, error) {
	wire := EncodeCommand(cmd)

	var last Response
	for attempt := 0; attempt < e.config.Attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(e.config.Backoff)
		}

		raw, err := e.transport.Transact(wire, timeout)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				last = Response{Kind: Timeout}
				continue
			}
			// I/O failure or a closed connection: not retryable, and
			// not a protocol classification, so it is returned as an
			// error rather than folded into Response.Kind.
			return Response{}, err
		}

		resp := DecodeResponse(raw)
		last = resp

		if resp.Kind == ChecksumEcho {
			return resp, nil
		}
		if resp.Kind == Ok {
			return resp, nil
		}
		// Malformed: retry.
	}

	return last, nil
}

// Close closes the underlying transport.
func (e *Engine) Close() error {
	return e.transport.Close()
}
