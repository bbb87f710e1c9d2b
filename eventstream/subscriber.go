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

package eventstream

import (
	"iter"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/fluxion/internal/queue"
)

// Subscriber buffers the messages of the topics it subscribed to.
// Subscribers are created by Stream.AddSubscriber.
type Subscriber interface {
	// ID returns the subscriber unique id
	ID() string
	// Active reports whether the subscriber still receives messages
	Active() bool
	// Topics returns the subscribed topics
	Topics() []string
	// Iterator yields the buffered messages in publication order, removing
	// them. It stops once the buffer is empty.
	Iterator() iter.Seq[*Message]
	// Shutdown stops the subscriber. Buffered messages can still be drained.
	Shutdown()

	deliver(message *Message)
	addTopic(topic string)
	removeTopic(topic string)
}

type subscriber struct {
	id       string
	topics   mapset.Set[string]
	messages *queue.Queue[*Message]
	active   *atomic.Bool
}

var _ Subscriber = (*subscriber)(nil)

func newSubscriber() *subscriber {
	return &subscriber{
		id:       uuid.NewString(),
		topics:   mapset.NewSet[string](),
		messages: queue.New[*Message](),
		active:   atomic.NewBool(true),
	}
}

func (s *subscriber) ID() string       { return s.id }
func (s *subscriber) Active() bool     { return s.active.Load() }
func (s *subscriber) Topics() []string { return s.topics.ToSlice() }
func (s *subscriber) Shutdown()        { s.active.Store(false) }

func (s *subscriber) Iterator() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for {
			msg, ok := s.messages.Pop()
			if !ok || !yield(msg) {
				return
			}
		}
	}
}

func (s *subscriber) deliver(message *Message) {
	if s.active.Load() {
		s.messages.Push(message)
	}
}

func (s *subscriber) addTopic(topic string)    { s.topics.Add(topic) }
func (s *subscriber) removeTopic(topic string) { s.topics.Remove(topic) }
