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

// Package xsync holds small concurrency-safe containers.
package xsync

import (
	"maps"
	"slices"
	"sync"
)

// Map is a map guarded by a read-write mutex. It suits small maps that are
// read far more often than written, such as listener tables.
type Map[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// NewMap creates an empty Map
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Set stores v under k, replacing any previous value
func (x *Map[K, V]) Set(k K, v V) {
	x.mu.Lock()
	x.m[k] = v
	x.mu.Unlock()
}

// SetIfAbsent stores v unless k is present. It reports whether v was stored.
func (x *Map[K, V]) SetIfAbsent(k K, v V) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, found := x.m[k]; found {
		return false
	}
	x.m[k] = v
	return true
}

// Get returns the value stored under k
func (x *Map[K, V]) Get(k K) (v V, ok bool) {
	x.mu.RLock()
	v, ok = x.m[k]
	x.mu.RUnlock()
	return v, ok
}

// Delete removes k
func (x *Map[K, V]) Delete(k K) {
	x.mu.Lock()
	delete(x.m, k)
	x.mu.Unlock()
}

// Len returns the number of entries
func (x *Map[K, V]) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.m)
}

// Values returns a snapshot of the values, in no particular order
func (x *Map[K, V]) Values() []V {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Collect(maps.Values(x.m))
}

// Reset removes every entry
func (x *Map[K, V]) Reset() {
	x.mu.Lock()
	clear(x.m)
	x.mu.Unlock()
}
