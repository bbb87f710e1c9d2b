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

// Package remote holds the wire formats shared by the relay and its
// transports: message serializers and payload compression.
package remote

import "errors"

// ErrInvalidFrame is returned by a Serializer when a frame is truncated or
// its length fields are inconsistent.
var ErrInvalidFrame = errors.New("remote: malformed or truncated frame")

// Serializer encodes messages into self-describing frames and decodes them
// back into values of the same concrete type. The type name is embedded in
// the frame so the receiving side needs no out-of-band coordination.
//
// Implementations are safe for concurrent use.
type Serializer interface {
	// Serialize encodes message. A nil message is an error.
	Serialize(message any) ([]byte, error)
	// Deserialize decodes a frame produced by Serialize. Decoded structs are
	// returned as pointers.
	Deserialize(data []byte) (any, error)
}

// TypeRegistrar is implemented by serializers that need the Go types they
// decode to be registered upfront.
type TypeRegistrar interface {
	Register(values ...any)
}
