// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxdevice

import "fmt"

// PreconditionError is returned when an operation requires a remote
// state the session is not in, or a requested value exceeds a known
// device limit. It is never sent on the wire.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "lumidoxdevice: precondition violated: " + e.Reason
}

func newPreconditionError(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}
