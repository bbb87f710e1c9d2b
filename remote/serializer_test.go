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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type order struct {
	ID    string
	Items []string
	Total float64
}

type status struct {
	Code int
}

func TestCBORSerializer(t *testing.T) {
	t.Run("round trip returns a pointer", func(t *testing.T) {
		serializer := NewCBORSerializer(new(order))
		orig := order{ID: "o-1", Items: []string{"a", "b"}, Total: 12.5}

		data, err := serializer.Serialize(orig)
		require.NoError(t, err)
		require.NotEmpty(t, data)

		actual, err := serializer.Deserialize(data)
		require.NoError(t, err)
		decoded, ok := actual.(*order)
		require.True(t, ok)
		assert.Equal(t, orig, *decoded)
	})
	t.Run("pointer message", func(t *testing.T) {
		serializer := NewCBORSerializer(status{})
		data, err := serializer.Serialize(&status{Code: 7})
		require.NoError(t, err)

		actual, err := serializer.Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, &status{Code: 7}, actual)
	})
	t.Run("frame embeds the type name", func(t *testing.T) {
		serializer := NewCBORSerializer(new(status))
		data, err := serializer.Serialize(status{Code: 1})
		require.NoError(t, err)

		require.EqualValues(t, len(data), binary.BigEndian.Uint32(data[0:4]))
		nameLen := int(binary.BigEndian.Uint32(data[4:8]))
		assert.Equal(t, "remote.status", string(data[8:8+nameLen]))
	})
	t.Run("nil message", func(t *testing.T) {
		serializer := NewCBORSerializer()
		_, err := serializer.Serialize(nil)
		require.ErrorIs(t, err, ErrCBORNilMessage)
	})
	t.Run("unregistered type", func(t *testing.T) {
		serializer := NewCBORSerializer()
		_, err := serializer.Serialize(status{Code: 1})
		require.ErrorIs(t, err, ErrCBORTypeNotRegistered)

		other := NewCBORSerializer(new(status))
		data, err := other.Serialize(status{Code: 1})
		require.NoError(t, err)
		_, err = serializer.Deserialize(data)
		require.ErrorIs(t, err, ErrCBORTypeNotRegistered)
	})
	t.Run("register later", func(t *testing.T) {
		serializer := NewCBORSerializer()
		serializer.Register(new(status))
		_, err := serializer.Serialize(status{Code: 1})
		require.NoError(t, err)
	})
	t.Run("corrupted payload", func(t *testing.T) {
		serializer := NewCBORSerializer(new(status))
		data, err := serializer.Serialize(status{Code: 1})
		require.NoError(t, err)

		nameLen := int(binary.BigEndian.Uint32(data[4:8]))
		data[8+nameLen] = 0xff
		_, err = serializer.Deserialize(data)
		require.ErrorIs(t, err, ErrCBORDeserializeFailed)
	})
}

func TestInvalidFrame(t *testing.T) {
	serializers := map[string]Serializer{
		"cbor":  NewCBORSerializer(),
		"proto": NewProtoSerializer(),
	}
	for name, serializer := range serializers {
		t.Run(name, func(t *testing.T) {
			actual, err := serializer.Deserialize([]byte{1, 2, 3})
			require.ErrorIs(t, err, ErrInvalidFrame)
			require.Nil(t, actual)

			data := make([]byte, 8)
			binary.BigEndian.PutUint32(data[:4], 100)
			_, err = serializer.Deserialize(data)
			require.ErrorIs(t, err, ErrInvalidFrame)

			data = make([]byte, 12)
			binary.BigEndian.PutUint32(data[:4], 12)
			binary.BigEndian.PutUint32(data[4:8], 10)
			_, err = serializer.Deserialize(data)
			require.ErrorIs(t, err, ErrInvalidFrame)
		})
	}
}

func TestProtoSerializer(t *testing.T) {
	serializer := NewProtoSerializer()

	t.Run("round trip", func(t *testing.T) {
		data, err := serializer.Serialize(wrapperspb.String("hello world"))
		require.NoError(t, err)

		actual, err := serializer.Deserialize(data)
		require.NoError(t, err)
		reply, ok := actual.(*wrapperspb.StringValue)
		require.True(t, ok)
		assert.Equal(t, "hello world", reply.GetValue())
	})
	t.Run("non proto value", func(t *testing.T) {
		_, err := serializer.Serialize("not a proto")
		require.ErrorIs(t, err, ErrNotProtoMessage)
		_, err = serializer.Serialize(status{Code: 1})
		require.ErrorIs(t, err, ErrNotProtoMessage)
	})
	t.Run("unknown type", func(t *testing.T) {
		name := "fluxion.DoesNotExist"
		data := make([]byte, 8+len(name))
		binary.BigEndian.PutUint32(data[:4], uint32(len(data)))
		binary.BigEndian.PutUint32(data[4:8], uint32(len(name)))
		copy(data[8:], name)
		_, err := serializer.Deserialize(data)
		require.ErrorIs(t, err, ErrUnknownProtoType)
	})
}
