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

import (
	"fmt"
	"slices"

	"github.com/tochemey/fluxion/errors"
)

type messageHandler func(ctx *Context, msg any) (any, error)

type notificationHandler func(ctx *Context, msg any) error

// HandlerTable maps contract identities to an actor's handlers. It is filled
// by the actor's Handlers method and read-only afterwards.
type HandlerTable struct {
	messages      map[string]messageHandler
	notifications map[string]notificationHandler
	federated     string
	err           error
}

func newHandlerTable() *HandlerTable {
	return &HandlerTable{
		messages:      make(map[string]messageHandler),
		notifications: make(map[string]notificationHandler),
	}
}

// Handle registers the handler of contract c.
//
// Registering the same contract twice makes System.Add fail with
// errors.ErrDuplicateHandler.
func Handle[M, R any](table *HandlerTable, c Contract[M, R], fn func(ctx *Context, msg M) (R, error)) {
	if table.err != nil {
		return
	}
	if _, ok := table.messages[c.ID()]; ok {
		table.err = errors.NewErrDuplicateHandler(c.ID())
		return
	}
	table.messages[c.ID()] = func(ctx *Context, msg any) (any, error) {
		m, ok := coerce[M](msg)
		if !ok {
			return nil, errors.NewErrInvalidMessage(fmt.Errorf("contract %s expects %v, got %T", c.ID(), c.info.Message, msg))
		}
		return fn(ctx, m)
	}
}

// HandleFederated registers the handler of contract c and declares c as the
// actor's federated contract: Federate(c) reaches every actor that did so.
//
// An actor has at most one federated contract. Declaring a second one makes
// System.Add fail with errors.ErrFederatedConflict.
func HandleFederated[M, R any](table *HandlerTable, c Contract[M, R], fn func(ctx *Context, msg M) (R, error)) {
	if table.err != nil {
		return
	}
	if table.federated != "" {
		table.err = fmt.Errorf("(contract=%s) %w", c.ID(), errors.ErrFederatedConflict)
		return
	}
	Handle(table, c, fn)
	if table.err == nil {
		table.federated = c.ID()
	}
}

// HandleNotification registers the handler of notification n.
func HandleNotification[N any](table *HandlerTable, n Notification[N], fn func(ctx *Context, msg N) error) {
	if table.err != nil {
		return
	}
	if _, ok := table.notifications[n.ID()]; ok {
		table.err = errors.NewErrDuplicateHandler(n.ID())
		return
	}
	table.notifications[n.ID()] = func(ctx *Context, msg any) error {
		m, ok := coerce[N](msg)
		if !ok {
			return errors.NewErrInvalidMessage(fmt.Errorf("notification %s expects %v, got %T", n.ID(), n.info.Message, msg))
		}
		return fn(ctx, m)
	}
}

// Handles reports whether the table holds a handler for the contract identity
func (t *HandlerTable) Handles(contractID string) bool {
	_, ok := t.messages[contractID]
	if !ok {
		_, ok = t.notifications[contractID]
	}
	return ok
}

// Contracts returns the sorted identities of the handled contracts and notifications
func (t *HandlerTable) Contracts() []string {
	out := make([]string, 0, len(t.messages)+len(t.notifications))
	for id := range t.messages {
		out = append(out, id)
	}
	for id := range t.notifications {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Federated returns the federated contract identity, if any
func (t *HandlerTable) Federated() (string, bool) {
	return t.federated, t.federated != ""
}

func (t *HandlerTable) message(contractID string) (messageHandler, bool) {
	h, ok := t.messages[contractID]
	return h, ok
}

func (t *HandlerTable) notification(contractID string) (notificationHandler, bool) {
	h, ok := t.notifications[contractID]
	return h, ok
}
