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

package actor

// EventsTopic is the event stream topic lifecycle events and dead letters are
// published on.
const EventsTopic = "fluxion.actor.events"

// ActorStarted is published when an actor finished its initialization and
// can receive messages.
type ActorStarted struct {
	ID   ID
	Type string
}

// ActorStopped is published when an actor has been shut down.
type ActorStopped struct {
	ID ID
	// Err is the Deinitialize failure reported to the caller, if any.
	Err error
}

// ActorFailed is published when an actor could not be initialized. The actor
// has been removed.
type ActorFailed struct {
	ID  ID
	Err error
}

// DeadLetter is published when a notification could not be delivered to an actor.
type DeadLetter struct {
	ID       ID
	Contract string
	Message  any
	Err      error
}
