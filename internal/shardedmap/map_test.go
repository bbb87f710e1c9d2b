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

package shardedmap

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestMap(t *testing.T) {
	t.Run("With Store Load and Delete", func(t *testing.T) {
		m := New[string, int](StringHasher)
		m.Store("a", 1)
		v, ok := m.Load("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)

		m.Delete("a")
		_, ok = m.Load("a")
		assert.False(t, ok)
		assert.Zero(t, m.Len())
	})
	t.Run("With LoadOrStore", func(t *testing.T) {
		m := New[uint64, string](Uint64Hasher)
		v, loaded := m.LoadOrStore(1, "one")
		assert.False(t, loaded)
		assert.Equal(t, "one", v)

		v, loaded = m.LoadOrStore(1, "uno")
		assert.True(t, loaded)
		assert.Equal(t, "one", v)
	})
	t.Run("With CompareAndDelete", func(t *testing.T) {
		m := New[uint64, int](Uint64Hasher)
		m.Store(1, 10)
		assert.False(t, m.CompareAndDelete(1, func(v int) bool { return v == 11 }))
		assert.True(t, m.CompareAndDelete(1, func(v int) bool { return v == 10 }))
		assert.False(t, m.CompareAndDelete(1, func(int) bool { return true }))
	})
	t.Run("With Range", func(t *testing.T) {
		m := New[uint64, int](Uint64Hasher)
		for i := range uint64(100) {
			m.Store(i, int(i))
		}
		count := 0
		m.Range(func(uint64, int) bool {
			count++
			return true
		})
		assert.Equal(t, 100, count)

		count = 0
		m.Range(func(uint64, int) bool {
			count++
			return count < 10
		})
		assert.Equal(t, 10, count)

		m.Reset()
		assert.Zero(t, m.Len())
	})
	t.Run("With concurrent access", func(t *testing.T) {
		m := New[string, int](StringHasher)
		eg := new(errgroup.Group)
		for i := range 200 {
			eg.Go(func() error {
				key := strconv.Itoa(i)
				m.Store(key, i)
				_, _ = m.Load(key)
				return nil
			})
		}
		require.NoError(t, eg.Wait())
		assert.Equal(t, 200, m.Len())
	})
}
