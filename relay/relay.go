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

// Package relay implements an actor.Delegate carrying messages between actor
// systems over a pluggable Transport.
//
// A relay knows the systems it reaches directly: its routes. A foreign path
// is sent to the route named by its first segment together with the
// remaining hops. A relay receiving an envelope with hops left forwards it to
// the next route untouched; otherwise it decodes the payload and hands it to
// the system it is bound to.
//
//	transport := relay.NewMemoryTransport()
//	delegate := relay.New(transport, relay.WithRoutes("billing"))
//	system, _ := actor.NewSystem("orders", actor.WithDelegate(delegate))
//	_ = delegate.Bind(ctx, system)
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/tochemey/fluxion/actor"
	"github.com/tochemey/fluxion/address"
	gerrors "github.com/tochemey/fluxion/errors"
	"github.com/tochemey/fluxion/internal/errorschain"
	"github.com/tochemey/fluxion/log"
	"github.com/tochemey/fluxion/remote"
)

// ErrAlreadyBound is returned when Bind is called on a bound Delegate
var ErrAlreadyBound = errors.New("relay: delegate already bound to a system")

// Delegate is an actor.Delegate and actor.Broadcaster backed by a Transport
type Delegate struct {
	transport   Transport
	routes      mapset.Set[string]
	serializer  remote.Serializer
	compression remote.Compression
	logger      log.Logger

	mu       sync.RWMutex
	system   *actor.System
	listener io.Closer
}

var (
	_ actor.Delegate    = (*Delegate)(nil)
	_ actor.Broadcaster = (*Delegate)(nil)
)

// New creates a Delegate sending frames through transport
func New(transport Transport, opts ...Option) *Delegate {
	d := &Delegate{
		transport:   transport,
		routes:      mapset.NewSet[string](),
		serializer:  remote.NewCBORSerializer(),
		compression: remote.ZstdCompression,
		logger:      log.DefaultLogger,
	}
	for _, opt := range opts {
		opt.Apply(d)
	}
	return d
}

// AddRoute makes system reachable through the transport
func (d *Delegate) AddRoute(system string) error {
	if err := address.NewSystemIDValidator(system).Validate(); err != nil {
		return err
	}
	d.routes.Add(system)
	return nil
}

// RemoveRoute forgets system
func (d *Delegate) RemoveRoute(system string) {
	d.routes.Remove(system)
}

// Routes returns the reachable systems, sorted
func (d *Delegate) Routes() []string {
	routes := d.routes.ToSlice()
	slices.Sort(routes)
	return routes
}

// Bind attaches the Delegate to the system it serves and starts listening for
// envelopes addressed to it. The system must have been created with this
// Delegate.
func (d *Delegate) Bind(ctx context.Context, system *actor.System) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.system != nil {
		return ErrAlreadyBound
	}

	listener, err := d.transport.Listen(ctx, system.ID(), d.handle)
	if err != nil {
		return err
	}

	d.system = system
	d.listener = listener
	d.logger.Infof("relay bound to system (%s) with routes %v", system.ID(), d.Routes())
	return nil
}

// Close stops listening. The transport is left open since it may be shared.
func (d *Delegate) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listener == nil {
		return nil
	}
	err := d.listener.Close()
	d.listener = nil
	d.system = nil
	return err
}

// Resolve implements actor.Delegate. Only the first segment of path is
// checked: further hops are resolved by the relays along the way.
func (d *Delegate) Resolve(_ context.Context, path address.Path, contract actor.ContractInfo) (actor.ForeignSender, bool) {
	hop, ok := path.First()
	if !ok || !d.routes.Contains(hop) {
		return nil, false
	}
	d.register(contract)
	return &sender{
		delegate: d,
		hop:      hop,
		path:     path.PopFirst().String(),
		contract: contract.ID,
	}, true
}

// Broadcast implements actor.Broadcaster. The notification is published to
// every route; receiving relays do not forward it further.
func (d *Delegate) Broadcast(ctx context.Context, notification actor.ContractInfo, msg any) error {
	d.register(notification)
	payload, err := d.encode(d.compression, msg)
	if err != nil {
		return err
	}

	chain := errorschain.New(errorschain.ReturnAll())
	for _, route := range d.Routes() {
		frame, err := marshal(d.envelope("", notification.ID, KindNotify, payload))
		if err != nil {
			return err
		}
		if err := d.transport.Publish(ctx, route, frame); err != nil {
			chain.AddError(fmt.Errorf("route %s: %w", route, err))
		}
	}
	return chain.Error()
}

func (d *Delegate) envelope(path, contract string, kind Kind, payload []byte) *Envelope {
	return &Envelope{
		ID:          uuid.NewString(),
		Source:      d.source(),
		Path:        path,
		Contract:    contract,
		Kind:        kind,
		Compression: d.compression,
		Payload:     payload,
	}
}

func (d *Delegate) request(ctx context.Context, hop string, envelope *Envelope) (*Reply, error) {
	frame, err := marshal(envelope)
	if err != nil {
		return nil, gerrors.NewErrForeignUnavailable(err)
	}

	d.logger.Debugf("relay envelope (%s) %s %s to %s", envelope.ID, envelope.Kind, envelope.Contract, hop)
	out, err := d.transport.Request(ctx, hop, frame)
	if err != nil {
		return nil, gerrors.NewErrForeignUnavailable(err)
	}

	reply, err := unmarshalReply(out)
	if err != nil {
		return nil, gerrors.NewErrForeignUnavailable(err)
	}
	return reply, nil
}

// handle serves inbound frames
func (d *Delegate) handle(ctx context.Context, frame []byte) []byte {
	envelope, err := unmarshalEnvelope(frame)
	if err != nil {
		d.logger.Warnf("relay dropped an inbound frame: %v", err)
		return d.reply(failure(gerrors.NewErrForeignUnavailable(err)))
	}

	system := d.bound()
	if system == nil {
		return d.reply(failure(gerrors.ErrSystemStopped))
	}

	if envelope.Kind == KindNotify {
		d.notify(ctx, system, envelope)
		return nil
	}

	path, err := address.Parse(envelope.Path)
	if err != nil {
		return d.reply(failure(gerrors.NewErrActorNotFound(envelope.Path)))
	}

	path = path.Peel(system.ID())
	if !path.IsLocal() {
		return d.forward(ctx, path, envelope)
	}
	return d.reply(d.deliver(ctx, system, path, envelope))
}

// forward relays an envelope one hop further. The reply comes back as is.
func (d *Delegate) forward(ctx context.Context, path address.Path, envelope *Envelope) []byte {
	hop, _ := path.First()
	if !d.routes.Contains(hop) {
		return d.reply(failure(gerrors.NewErrActorNotFound(path.String())))
	}

	next := *envelope
	next.Path = path.PopFirst().String()
	frame, err := marshal(&next)
	if err != nil {
		return d.reply(failure(gerrors.NewErrForeignUnavailable(err)))
	}

	d.logger.Debugf("relay forwards envelope (%s) from %s to %s", envelope.ID, envelope.Source, hop)
	out, err := d.transport.Request(ctx, hop, frame)
	if err != nil {
		return d.reply(failure(gerrors.NewErrForeignUnavailable(err)))
	}
	return out
}

func (d *Delegate) deliver(ctx context.Context, system *actor.System, path address.Path, envelope *Envelope) *Reply {
	id, err := actor.ParseID(path.Actor())
	if err != nil {
		return failure(gerrors.NewErrActorNotFound(path.String()))
	}

	info, ok := actor.LookupContract(envelope.Contract)
	if !ok {
		return failure(gerrors.NewErrNoHandler(envelope.Contract))
	}
	d.register(info)

	msg, err := d.decode(envelope.Compression, envelope.Payload)
	if err != nil {
		return failure(gerrors.NewErrForeignUnavailable(err))
	}

	resp, err := system.Deliver(ctx, id, envelope.Contract, msg)
	if err != nil {
		return failure(err)
	}
	if envelope.Kind == KindTell || resp == nil {
		return &Reply{}
	}

	payload, err := d.encode(envelope.Compression, resp)
	if err != nil {
		return failure(gerrors.NewErrForeignUnavailable(err))
	}
	return &Reply{Payload: payload}
}

func (d *Delegate) notify(ctx context.Context, system *actor.System, envelope *Envelope) {
	info, ok := actor.LookupContract(envelope.Contract)
	if !ok {
		d.logger.Warnf("relay dropped notification (%s) from %s: unknown contract", envelope.Contract, envelope.Source)
		return
	}
	d.register(info)

	msg, err := d.decode(envelope.Compression, envelope.Payload)
	if err != nil {
		d.logger.Warnf("relay dropped notification (%s) from %s: %v", envelope.Contract, envelope.Source, err)
		return
	}
	delivered := system.DeliverNotification(ctx, envelope.Contract, msg)
	d.logger.Debugf("relay delivered notification (%s) from %s to %d actors", envelope.Contract, envelope.Source, delivered)
}

func (d *Delegate) reply(reply *Reply) []byte {
	out, err := marshal(reply)
	if err != nil {
		d.logger.Errorf("relay failed to encode a reply: %v", err)
		return nil
	}
	return out
}

func (d *Delegate) encode(compression remote.Compression, msg any) ([]byte, error) {
	data, err := d.serializer.Serialize(msg)
	if err != nil {
		return nil, gerrors.NewErrForeignUnavailable(err)
	}
	data, err = remote.Compress(compression, data)
	if err != nil {
		return nil, gerrors.NewErrForeignUnavailable(err)
	}
	return data, nil
}

func (d *Delegate) decode(compression remote.Compression, payload []byte) (any, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	data, err := remote.Decompress(compression, payload)
	if err != nil {
		return nil, err
	}
	return d.serializer.Deserialize(data)
}

// register makes the contract types known to the serializer
func (d *Delegate) register(contract actor.ContractInfo) {
	registrar, ok := d.serializer.(remote.TypeRegistrar)
	if !ok {
		return
	}
	registrar.Register(contract.Message)
	if contract.Response != nil {
		registrar.Register(contract.Response)
	}
}

func (d *Delegate) bound() *actor.System {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.system
}

func (d *Delegate) source() string {
	if system := d.bound(); system != nil {
		return system.ID()
	}
	return ""
}

// sender is the ForeignSender of one resolved path
type sender struct {
	delegate *Delegate
	hop      string
	path     string
	contract string
}

func (s *sender) Ask(ctx context.Context, msg any) (any, error) {
	reply, err := s.send(ctx, KindAsk, msg)
	if err != nil {
		return nil, err
	}
	resp, err := s.delegate.decode(s.delegate.compression, reply.Payload)
	if err != nil {
		return nil, gerrors.NewErrForeignUnavailable(err)
	}
	return resp, nil
}

func (s *sender) Tell(ctx context.Context, msg any) error {
	_, err := s.send(ctx, KindTell, msg)
	return err
}

func (s *sender) send(ctx context.Context, kind Kind, msg any) (*Reply, error) {
	payload, err := s.delegate.encode(s.delegate.compression, msg)
	if err != nil {
		return nil, err
	}
	reply, err := s.delegate.request(ctx, s.hop, s.delegate.envelope(s.path, s.contract, kind, payload))
	if err != nil {
		return nil, err
	}
	if err := reply.Err(); err != nil {
		return nil, err
	}
	return reply, nil
}
