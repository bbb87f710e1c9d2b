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

package queue

import "sync"

// minQueueLen is the smallest capacity that queue may have.
// Must be power of 2 for bitwise modulus: x % n == x & (n - 1).
const minQueueLen = 16

// Queue is an unbounded thread-safe FIFO backed by a ring buffer.
// reference: https://github.com/eapache/queue
type Queue[T any] struct {
	mu    sync.Mutex
	nodes []T
	head  int
	tail  int
	count int
}

// New creates an instance of Queue
func New[T any]() *Queue[T] {
	return &Queue[T]{
		nodes: make([]T, minQueueLen),
	}
}

// Push adds an item to the back of the queue
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	if q.count == len(q.nodes) {
		q.resize(len(q.nodes) << 1)
	}
	q.nodes[q.tail] = item
	q.tail = (q.tail + 1) & (len(q.nodes) - 1)
	q.count++
	q.mu.Unlock()
}

// Pop removes and returns the item at the front of the queue.
// The boolean is false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if q.count == 0 {
		return zero, false
	}
	item := q.nodes[q.head]
	q.nodes[q.head] = zero
	q.head = (q.head + 1) & (len(q.nodes) - 1)
	q.count--
	if len(q.nodes) > minQueueLen && (q.count<<2) == len(q.nodes) {
		q.resize(len(q.nodes) >> 1)
	}
	return item, true
}

// Len returns the number of items in the queue
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// resize moves the items into a buffer of the given size. size must be a
// power of two that fits the current items.
func (q *Queue[T]) resize(size int) {
	nodes := make([]T, size)
	if q.tail > q.head {
		copy(nodes, q.nodes[q.head:q.tail])
	} else if q.count > 0 {
		n := copy(nodes, q.nodes[q.head:])
		copy(nodes[n:], q.nodes[:q.tail])
	}
	q.head = 0
	q.tail = q.count & (size - 1)
	q.nodes = nodes
}
