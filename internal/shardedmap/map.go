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

// Package shardedmap provides a concurrent map split into independently locked
// shards. Keys are spread over the shards with an xxh3 hash so that readers and
// writers on different keys rarely contend.
package shardedmap

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/zeebo/xxh3"
)

const maxShards = 64

// Hasher computes the hash of a key.
type Hasher[K comparable] func(key K) uint64

// StringHasher hashes string keys.
func StringHasher(key string) uint64 {
	return xxh3.HashString(key)
}

// Uint64Hasher hashes uint64 keys.
func Uint64Hasher(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return xxh3.Hash(buf[:])
}

type shard[K comparable, V any] struct {
	sync.RWMutex
	m map[K]V
}

// Map defines a concurrent map with sharding for scalability
type Map[K comparable, V any] struct {
	shards []*shard[K, V]
	hasher Hasher[K]
}

// New creates an instance of Map
func New[K comparable, V any](hasher Hasher[K]) *Map[K, V] {
	numShards := calculateNumShards()
	shards := make([]*shard[K, V], numShards)
	for i := range numShards {
		shards[i] = &shard[K, V]{
			m: make(map[K]V),
		}
	}
	return &Map[K, V]{shards: shards, hasher: hasher}
}

// Load returns the value of a given key
func (s *Map[K, V]) Load(key K) (V, bool) {
	sh := s.getShard(key)
	sh.RLock()
	val, ok := sh.m[key]
	sh.RUnlock()
	return val, ok
}

// Store adds a key/value pair to the map
func (s *Map[K, V]) Store(key K, value V) {
	sh := s.getShard(key)
	sh.Lock()
	sh.m[key] = value
	sh.Unlock()
}

// LoadOrStore returns the existing value for the key if present.
// Otherwise, it stores and returns the given value.
// The loaded result is true if the value was loaded, false if stored.
func (s *Map[K, V]) LoadOrStore(key K, value V) (V, bool) {
	sh := s.getShard(key)
	sh.Lock()
	defer sh.Unlock()
	if existing, ok := sh.m[key]; ok {
		return existing, true
	}
	sh.m[key] = value
	return value, false
}

// Delete removes a given key from the map
func (s *Map[K, V]) Delete(key K) {
	sh := s.getShard(key)
	sh.Lock()
	delete(sh.m, key)
	sh.Unlock()
}

// CompareAndDelete removes the key only when its value satisfies match.
// It returns true when the key has been removed.
func (s *Map[K, V]) CompareAndDelete(key K, match func(V) bool) bool {
	sh := s.getShard(key)
	sh.Lock()
	defer sh.Unlock()
	val, ok := sh.m[key]
	if !ok || !match(val) {
		return false
	}
	delete(sh.m, key)
	return true
}

// Range calls f for every key/value pair until f returns false.
// Each shard is read under its own lock, so f observes a per-shard snapshot.
func (s *Map[K, V]) Range(f func(key K, value V) bool) {
	for _, sh := range s.shards {
		sh.RLock()
		entries := make([]struct {
			k K
			v V
		}, 0, len(sh.m))
		for k, v := range sh.m {
			entries = append(entries, struct {
				k K
				v V
			}{k, v})
		}
		sh.RUnlock()
		for _, e := range entries {
			if !f(e.k, e.v) {
				return
			}
		}
	}
}

// Len returns the number of entries
func (s *Map[K, V]) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.RLock()
		total += len(sh.m)
		sh.RUnlock()
	}
	return total
}

// Reset removes every entry
func (s *Map[K, V]) Reset() {
	for _, sh := range s.shards {
		sh.Lock()
		clear(sh.m)
		sh.Unlock()
	}
}

func (s *Map[K, V]) getShard(key K) *shard[K, V] {
	return s.shards[s.hasher(key)%uint64(len(s.shards))]
}

func calculateNumShards() int {
	numCPU := runtime.NumCPU() * 2
	if numCPU > maxShards {
		return maxShards
	}
	return numCPU
}
