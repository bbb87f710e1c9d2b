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
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

var (
	// ErrNotProtoMessage is returned when ProtoSerializer is handed a value
	// that does not implement proto.Message.
	ErrNotProtoMessage = errors.New("remote: message is not a proto.Message")

	// ErrUnknownProtoType is returned when the frame names a message type that is
	// not linked into the binary.
	ErrUnknownProtoType = errors.New("remote: unknown proto message type")

	// ErrProtoSerializeFailed is returned when proto marshaling fails.
	ErrProtoSerializeFailed = errors.New("remote: failed to serialize proto message")

	// ErrProtoDeserializeFailed is returned when proto unmarshaling fails.
	ErrProtoDeserializeFailed = errors.New("remote: failed to deserialize proto message")
)

// ProtoSerializer encodes proto.Message values using the same frame layout as
// CBORSerializer, with the proto full name as the type name. Types are looked
// up in protoregistry.GlobalTypes, so no registration is needed.
type ProtoSerializer struct{}

var _ Serializer = (*ProtoSerializer)(nil)

// NewProtoSerializer creates a ProtoSerializer
func NewProtoSerializer() *ProtoSerializer {
	return &ProtoSerializer{}
}

// Serialize implements Serializer.
func (x *ProtoSerializer) Serialize(message any) ([]byte, error) {
	msg, ok := message.(proto.Message)
	if !ok || msg == nil {
		return nil, ErrNotProtoMessage
	}

	name := string(proto.MessageName(msg))
	if name == "" {
		return nil, ErrNotProtoMessage
	}

	nameLen := len(name)
	totalLen := 4 + 4 + nameLen + proto.Size(msg)
	out := make([]byte, 0, totalLen)

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(totalLen))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(nameLen))
	out = append(out, hdr[:]...)
	out = append(out, name...)

	out, err := proto.MarshalOptions{}.MarshalAppend(out, msg)
	if err != nil {
		return nil, errors.Join(ErrProtoSerializeFailed, err)
	}
	return out, nil
}

// Deserialize implements Serializer.
func (x *ProtoSerializer) Deserialize(data []byte) (any, error) {
	name, payload, err := readFrame(data)
	if err != nil {
		return nil, err
	}

	msgType, err := protoregistry.GlobalTypes.FindMessageByName(protoreflect.FullName(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtoType, strings.Clone(name))
	}

	msg := msgType.New().Interface()
	if err := proto.Unmarshal(payload, msg); err != nil {
		return nil, errors.Join(ErrProtoDeserializeFailed, err)
	}
	return msg, nil
}
