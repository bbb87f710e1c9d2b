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

package relay

import (
	"errors"
	"strings"

	"go.uber.org/atomic"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tochemey/fluxion/actor"
	"github.com/tochemey/fluxion/address"
)

type ping struct {
	Text string
}

type pong struct {
	Text string
	From string
}

type hop struct {
	Path string
	Back string
}

type tick struct {
	Seq int
}

var (
	pingContract     = actor.NewContract[ping, pong]()
	hopContract      = actor.NewContract[hop, pong]()
	upperContract    = actor.NamedContract[*wrapperspb.StringValue, *wrapperspb.StringValue]("fluxion.relay.upper")
	tickNotification = actor.NewNotification[tick]()
)

// echo answers ping with the text and the system it runs in
type echo struct {
	actor.Base
}

func (e *echo) Handlers(table *actor.HandlerTable) {
	actor.Handle(table, pingContract, func(ctx *actor.Context, msg ping) (pong, error) {
		if msg.Text == "" {
			return pong{}, errors.New("empty ping")
		}
		return pong{Text: msg.Text, From: ctx.System().ID()}, nil
	})
	actor.Handle(table, upperContract, func(_ *actor.Context, msg *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
		return wrapperspb.String(strings.ToUpper(msg.GetValue())), nil
	})
}

// hopper sends hop messages along the path it receives
type hopper struct {
	actor.Base
}

func (h *hopper) Handlers(table *actor.HandlerTable) {
	actor.Handle(table, hopContract, func(ctx *actor.Context, msg hop) (pong, error) {
		if msg.Path == "" {
			return pong{From: ctx.System().ID()}, nil
		}
		path, err := address.Parse(msg.Path)
		if err != nil {
			return pong{}, err
		}
		return actor.SendPath(ctx.Context(), ctx.System(), path, hopContract, hop{Path: msg.Back})
	})
}

// listener counts the ticks it receives
type listener struct {
	actor.Base
	received *atomic.Int64
	last     *atomic.Int64
}

func newListener() *listener {
	return &listener{received: atomic.NewInt64(0), last: atomic.NewInt64(0)}
}

func (l *listener) Handlers(table *actor.HandlerTable) {
	actor.HandleNotification(table, tickNotification, func(_ *actor.Context, msg tick) error {
		l.received.Inc()
		l.last.Store(int64(msg.Seq))
		return nil
	})
}
