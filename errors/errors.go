// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package errors defines the error taxonomy shared by the actor runtime, the
// relay and its transports.
//
// Dispatch-path errors (ErrActorNotFound, ErrNoHandler, ErrForeignUnavailable)
// are always returned to the caller. Lifecycle errors (InitializationError,
// DeinitializationError) go through the actor's error policy first.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrActorNotFound is returned when an address does not resolve: no local
	// record is running under the given id, or no relay route exists.
	ErrActorNotFound = errors.New("actor not found")

	// ErrNoHandler is returned when the target actor never registered a handler
	// for the message contract.
	ErrNoHandler = errors.New("no handler for contract")

	// ErrInitializationFailed is matched by every InitializationError.
	ErrInitializationFailed = errors.New("actor initialization failed")

	// ErrDeinitializationFailed is matched by every DeinitializationError.
	ErrDeinitializationFailed = errors.New("actor deinitialization failed")

	// ErrForeignUnavailable is returned when a delegate resolved a foreign actor
	// but the transport or the serialization failed.
	ErrForeignUnavailable = errors.New("foreign actor unavailable")

	// ErrPolicyExhausted is returned when an error policy ran out of retries and
	// the failure was then propagated.
	ErrPolicyExhausted = errors.New("error policy retries exhausted")

	// ErrInvalidActor is returned when a nil actor is added to a system.
	ErrInvalidActor = errors.New("invalid actor")

	// ErrDuplicateHandler is returned when an actor registers two handlers for
	// the same contract.
	ErrDuplicateHandler = errors.New("duplicate handler for contract")

	// ErrFederatedConflict is returned when an actor declares more than one
	// federated contract.
	ErrFederatedConflict = errors.New("actor already handles a federated contract")

	// ErrInvalidMessage is returned when an erased message does not match the
	// contract's message type.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrReentrancy is returned when a handler sends a message to an actor that
	// is already held by the same call chain. Serving it would deadlock.
	ErrReentrancy = errors.New("reentrant send to an actor held by the call chain")

	// ErrSystemStopped is returned when an operation is attempted on a stopped system.
	ErrSystemStopped = errors.New("actor system is stopped")

	// ErrInvalidPath is returned when a foreign path cannot be parsed.
	ErrInvalidPath = errors.New("invalid actor path")

	// ErrRemoteHandler is returned when a foreign actor handled the message and
	// its handler failed. The handler error message is kept, not its type.
	ErrRemoteHandler = errors.New("foreign handler failed")

	// ErrInvalidSystemID is returned when a system id contains invalid characters.
	// A valid id starts with an alphanumeric character followed by alphanumeric
	// characters, hyphens or underscores.
	ErrInvalidSystemID = errors.New("invalid system id, must match [a-zA-Z0-9][a-zA-Z0-9_-]*")
)

// NewErrActorNotFound formats an ErrActorNotFound with the given address.
func NewErrActorNotFound(addr string) error {
	return fmt.Errorf("(actor=%s) %w", addr, ErrActorNotFound)
}

// NewErrNoHandler formats an ErrNoHandler with the given contract identity.
func NewErrNoHandler(contract string) error {
	return fmt.Errorf("(contract=%s) %w", contract, ErrNoHandler)
}

// NewErrDuplicateHandler formats an ErrDuplicateHandler with the given contract identity.
func NewErrDuplicateHandler(contract string) error {
	return fmt.Errorf("(contract=%s) %w", contract, ErrDuplicateHandler)
}

// NewErrForeignUnavailable wraps a transport or codec error into an ErrForeignUnavailable.
func NewErrForeignUnavailable(err error) error {
	return errors.Join(ErrForeignUnavailable, err)
}

// NewErrInvalidMessage wraps a base error with ErrInvalidMessage for additional context.
func NewErrInvalidMessage(err error) error {
	return errors.Join(ErrInvalidMessage, err)
}

// NewErrRemoteHandler formats an ErrRemoteHandler with the message reported by the foreign system.
func NewErrRemoteHandler(message string) error {
	return fmt.Errorf("%w: %s", ErrRemoteHandler, message)
}

// NewErrPolicyExhausted wraps the last failure of an exhausted policy.
func NewErrPolicyExhausted(err error) error {
	return errors.Join(ErrPolicyExhausted, err)
}

// InitializationError is returned by System.Add when the actor's Initialize
// hook failed and the error policy propagated the failure.
type InitializationError struct {
	err error
}

// enforce compilation error
var _ error = (*InitializationError)(nil)

// NewInitializationError creates an instance of InitializationError
func NewInitializationError(err error) *InitializationError {
	return &InitializationError{err: err}
}

// Error implements the standard error interface
func (e *InitializationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInitializationFailed.Error(), e.err)
}

// Unwrap returns the error reported by the actor
func (e *InitializationError) Unwrap() error {
	return e.err
}

// Is reports whether target is ErrInitializationFailed
func (e *InitializationError) Is(target error) bool {
	return target == ErrInitializationFailed
}

// DeinitializationError is returned by System.Shutdown when the actor's
// Deinitialize hook failed and the error policy propagated the failure.
type DeinitializationError struct {
	err error
}

// enforce compilation error
var _ error = (*DeinitializationError)(nil)

// NewDeinitializationError creates an instance of DeinitializationError
func NewDeinitializationError(err error) *DeinitializationError {
	return &DeinitializationError{err: err}
}

// Error implements the standard error interface
func (e *DeinitializationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDeinitializationFailed.Error(), e.err)
}

// Unwrap returns the error reported by the actor
func (e *DeinitializationError) Unwrap() error {
	return e.err
}

// Is reports whether target is ErrDeinitializationFailed
func (e *DeinitializationError) Is(target error) bool {
	return target == ErrDeinitializationFailed
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
