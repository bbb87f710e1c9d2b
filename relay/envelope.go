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

package relay

import (
	"errors"

	"github.com/fxamacker/cbor/v2"

	gerrors "github.com/tochemey/fluxion/errors"
	"github.com/tochemey/fluxion/remote"
)

// ErrInvalidEnvelope is returned when an inbound frame is not a relay envelope.
var ErrInvalidEnvelope = errors.New("relay: invalid envelope")

// Kind tells the receiving relay what to do with an envelope
type Kind uint8

const (
	// KindAsk delivers a message and returns the response
	KindAsk Kind = iota + 1
	// KindTell delivers a message and discards the response
	KindTell
	// KindNotify hands a notification to every local actor handling it
	KindNotify
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindAsk:
		return "ask"
	case KindTell:
		return "tell"
	case KindNotify:
		return "notify"
	default:
		return "unknown"
	}
}

// Envelope is the frame exchanged between relays. Path holds the hops left
// once the envelope reaches its destination; relays forward it without
// decoding Payload.
type Envelope struct {
	ID          string             `cbor:"1,keyasint"`
	Source      string             `cbor:"2,keyasint"`
	Path        string             `cbor:"3,keyasint"`
	Contract    string             `cbor:"4,keyasint"`
	Kind        Kind               `cbor:"5,keyasint"`
	Compression remote.Compression `cbor:"6,keyasint"`
	Payload     []byte             `cbor:"7,keyasint,omitempty"`
}

// Reply answers an ask or tell Envelope. A non-empty Code reports a failure.
type Reply struct {
	Payload []byte `cbor:"1,keyasint,omitempty"`
	Code    string `cbor:"2,keyasint,omitempty"`
	Message string `cbor:"3,keyasint,omitempty"`
}

// Reply error codes
const (
	CodeNotFound       = "not_found"
	CodeNoHandler      = "no_handler"
	CodeInvalidMessage = "invalid_message"
	CodeReentrancy     = "reentrancy"
	CodeStopped        = "stopped"
	CodeUnavailable    = "foreign_unavailable"
	CodeHandler        = "handler"
)

var codes = []struct {
	code string
	err  error
}{
	{CodeNotFound, gerrors.ErrActorNotFound},
	{CodeNoHandler, gerrors.ErrNoHandler},
	{CodeInvalidMessage, gerrors.ErrInvalidMessage},
	{CodeReentrancy, gerrors.ErrReentrancy},
	{CodeStopped, gerrors.ErrSystemStopped},
	{CodeUnavailable, gerrors.ErrForeignUnavailable},
	{CodeHandler, gerrors.ErrRemoteHandler},
}

var (
	envelopeEnc cbor.EncMode
	envelopeDec cbor.DecMode
)

func init() {
	var err error
	envelopeEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	envelopeDec, err = cbor.DecOptions{
		MaxNestedLevels: 16,
		IndefLength:     cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// failure builds the Reply carrying err
func failure(err error) *Reply {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return &Reply{Code: c.code, Message: err.Error()}
		}
	}
	return &Reply{Code: CodeHandler, Message: err.Error()}
}

// Err rebuilds the error carried by the reply, nil on success. The error
// matches the sentinel of its code with errors.Is and keeps the remote message.
func (r *Reply) Err() error {
	if r.Code == "" {
		return nil
	}
	if r.Code == CodeHandler {
		return gerrors.NewErrRemoteHandler(r.Message)
	}
	for _, c := range codes {
		if c.code == r.Code {
			return &replyError{sentinel: c.err, message: r.Message}
		}
	}
	return gerrors.NewErrForeignUnavailable(errors.New(r.Message))
}

type replyError struct {
	sentinel error
	message  string
}

func (e *replyError) Error() string {
	if e.message == "" {
		return e.sentinel.Error()
	}
	return e.message
}

func (e *replyError) Unwrap() error {
	return e.sentinel
}

func marshal(v any) ([]byte, error) {
	return envelopeEnc.Marshal(v)
}

func unmarshalEnvelope(frame []byte) (*Envelope, error) {
	envelope := new(Envelope)
	if err := envelopeDec.Unmarshal(frame, envelope); err != nil {
		return nil, errors.Join(ErrInvalidEnvelope, err)
	}
	if envelope.Contract == "" || envelope.Kind < KindAsk || envelope.Kind > KindNotify {
		return nil, ErrInvalidEnvelope
	}
	return envelope, nil
}

func unmarshalReply(frame []byte) (*Reply, error) {
	reply := new(Reply)
	if err := envelopeDec.Unmarshal(frame, reply); err != nil {
		return nil, errors.Join(ErrInvalidEnvelope, err)
	}
	return reply, nil
}
