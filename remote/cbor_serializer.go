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

package remote

import (
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/fluxion/internal/types"
)

var (
	// ErrCBORNilMessage is returned by CBORSerializer.Serialize when the
	// supplied message is nil.
	ErrCBORNilMessage = errors.New("remote: CBOR message is nil")

	// ErrCBORSerializeFailed is returned when CBOR marshaling fails.
	ErrCBORSerializeFailed = errors.New("remote: failed to serialize CBOR message")

	// ErrCBORDeserializeFailed is returned when CBOR unmarshaling fails.
	ErrCBORDeserializeFailed = errors.New("remote: failed to deserialize CBOR message")

	// ErrCBORTypeNotRegistered is returned when the message type is not registered.
	ErrCBORTypeNotRegistered = errors.New("remote: CBOR type not registered")

	cborEncOpts = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnixDynamic,
	}
	cborDecOpts = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8DecodeInvalid,
	}
)

// CBORSerializer encodes arbitrary Go values with CBOR in a length-prefixed,
// self-describing frame.
//
// # Frame layout
//
// All integers are big-endian uint32. The type name is the lowercased
// qualified Go type name.
//
//	┌──────────┬──────────┬────────────┬──────────────┐
//	│ totalLen │ nameLen  │ type name  │ CBOR bytes   │
//	│ 4 bytes  │ 4 bytes  │ N bytes    │ M bytes      │
//	└──────────┴──────────┴────────────┴──────────────┘
//
//	totalLen = 4 + 4 + N + M
//
// Both sides must register the message types, for instance:
//
//	serializer := remote.NewCBORSerializer(new(Ping), new(Pong))
type CBORSerializer struct {
	encMode  cbor.EncMode
	decMode  cbor.DecMode
	registry types.Registry
}

var (
	_ Serializer    = (*CBORSerializer)(nil)
	_ TypeRegistrar = (*CBORSerializer)(nil)
)

// NewCBORSerializer returns a CBORSerializer knowing the types of the given values.
func NewCBORSerializer(values ...any) *CBORSerializer {
	encMode, _ := cborEncOpts.EncMode()
	decMode, _ := cborDecOpts.DecMode()
	s := &CBORSerializer{
		encMode:  encMode,
		decMode:  decMode,
		registry: types.NewRegistry(),
	}
	s.Register(values...)
	return s
}

// Register adds the types of the given values. Values can be pointers,
// plain values or reflect.Type. Registering a type twice is harmless.
func (s *CBORSerializer) Register(values ...any) {
	for _, v := range values {
		s.registry.Register(v)
	}
}

// Serialize implements Serializer.
func (s *CBORSerializer) Serialize(message any) ([]byte, error) {
	if message == nil {
		return nil, ErrCBORNilMessage
	}

	name := types.Name(message)
	if _, ok := s.registry.TypeOf(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrCBORTypeNotRegistered, name)
	}

	cborBytes, err := s.encMode.Marshal(message)
	if err != nil {
		return nil, errors.Join(ErrCBORSerializeFailed, err)
	}

	nameLen := len(name)
	totalLen := 4 + 4 + nameLen + len(cborBytes)
	out := make([]byte, 0, totalLen)

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(totalLen))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(nameLen))
	out = append(out, hdr[:]...)
	out = append(out, name...)
	out = append(out, cborBytes...)
	return out, nil
}

// Deserialize implements Serializer. The returned value is a pointer to the
// decoded value.
func (s *CBORSerializer) Deserialize(data []byte) (any, error) {
	name, payload, err := readFrame(data)
	if err != nil {
		return nil, err
	}

	elemType, ok := s.registry.TypeOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCBORTypeNotRegistered, strings.Clone(name))
	}

	ptr := reflect.New(elemType)
	if err := s.decMode.Unmarshal(payload, ptr.Interface()); err != nil {
		return nil, errors.Join(ErrCBORDeserializeFailed, err)
	}
	return ptr.Interface(), nil
}

// readFrame validates a frame and returns its type name and payload. The name
// shares the frame memory and must not outlive it.
func readFrame(data []byte) (string, []byte, error) {
	if len(data) < 8 {
		return "", nil, ErrInvalidFrame
	}

	totalLen := int(binary.BigEndian.Uint32(data[0:4]))
	if len(data) < totalLen || totalLen < 8 {
		return "", nil, ErrInvalidFrame
	}

	nameLen := int(binary.BigEndian.Uint32(data[4:8]))
	if 8+nameLen > totalLen {
		return "", nil, ErrInvalidFrame
	}

	name := unsafe.String(unsafe.SliceData(data[8:8+nameLen]), nameLen)
	return name, data[8+nameLen : totalLen], nil
}
