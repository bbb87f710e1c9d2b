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

// Package eventstream is a small in-process topic broker. The actor system
// publishes lifecycle events and dead letters on it; subscribers drain their
// buffered messages at their own pace.
package eventstream

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/fluxion/internal/xsync"
)

// Stream is a topic broker
type Stream interface {
	// AddSubscriber creates an active subscriber without topics
	AddSubscriber() Subscriber
	// RemoveSubscriber unsubscribes sub from all its topics and shuts it down
	RemoveSubscriber(sub Subscriber)
	// SubscribersCount returns the number of subscribers of topic
	SubscribersCount(topic string) int
	// Subscribe adds topic to the topics of an active subscriber
	Subscribe(sub Subscriber, topic string)
	// Unsubscribe removes topic from the topics of sub
	Unsubscribe(sub Subscriber, topic string)
	// Publish buffers msg in every active subscriber of topic
	Publish(topic string, msg any)
	// Close shuts down every subscriber
	Close()
}

type broker struct {
	subscribers *xsync.Map[string, Subscriber]

	mu     sync.RWMutex
	topics map[string]mapset.Set[Subscriber]
}

var _ Stream = (*broker)(nil)

// New creates a Stream
func New() Stream {
	return &broker{
		subscribers: xsync.NewMap[string, Subscriber](),
		topics:      make(map[string]mapset.Set[Subscriber]),
	}
}

func (b *broker) AddSubscriber() Subscriber {
	sub := newSubscriber()
	b.subscribers.Set(sub.ID(), sub)
	return sub
}

func (b *broker) RemoveSubscriber(sub Subscriber) {
	for _, topic := range sub.Topics() {
		b.Unsubscribe(sub, topic)
	}
	b.subscribers.Delete(sub.ID())
	sub.Shutdown()
}

func (b *broker) SubscribersCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if subs, ok := b.topics[topic]; ok {
		return subs.Cardinality()
	}
	return 0
}

func (b *broker) Subscribe(sub Subscriber, topic string) {
	if !sub.Active() {
		return
	}
	sub.addTopic(topic)

	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = mapset.NewThreadUnsafeSet[Subscriber]()
		b.topics[topic] = subs
	}
	subs.Add(sub)
}

func (b *broker) Unsubscribe(sub Subscriber, topic string) {
	sub.removeTopic(topic)

	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		return
	}
	subs.Remove(sub)
	if subs.IsEmpty() {
		delete(b.topics, topic)
	}
}

// Publish is synchronous: when it returns, msg is buffered in every
// subscriber of the topic.
func (b *broker) Publish(topic string, msg any) {
	b.mu.RLock()
	var receivers []Subscriber
	if subs, ok := b.topics[topic]; ok {
		receivers = subs.ToSlice()
	}
	b.mu.RUnlock()

	if len(receivers) == 0 {
		return
	}

	message := NewMessage(topic, msg)
	for _, sub := range receivers {
		sub.deliver(message)
	}
}

func (b *broker) Close() {
	for _, sub := range b.subscribers.Values() {
		sub.Shutdown()
	}
	b.subscribers.Reset()

	b.mu.Lock()
	clear(b.topics)
	b.mu.Unlock()
}
