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
	"context"
	"errors"
	"reflect"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/tochemey/fluxion/address"
	gerrors "github.com/tochemey/fluxion/errors"
	"github.com/tochemey/fluxion/eventstream"
	"github.com/tochemey/fluxion/internal/errorschain"
	"github.com/tochemey/fluxion/internal/metric"
	"github.com/tochemey/fluxion/internal/shardedmap"
	"github.com/tochemey/fluxion/log"
	"github.com/tochemey/fluxion/policy"
)

const meterName = "github.com/tochemey/fluxion"

// propagateAll is the policy of actors that have none: every lifecycle
// failure is reported to the caller.
var propagateAll = policy.New(policy.WithDefault(policy.Propagate()))

// System owns a set of actors and dispatches messages to them.
//
// A System never starts goroutines: every handler runs on the goroutine of
// its caller. All methods are safe for concurrent use.
type System struct {
	id       string
	delegate Delegate
	logger   log.Logger

	registry *shardedmap.Map[ID, *record]
	counter  *atomic.Uint64
	stopped  *atomic.Bool

	typePolicies map[reflect.Type]*policy.Policy

	events eventstream.Stream

	meterProvider otelmetric.MeterProvider
	registration  otelmetric.Registration
	startedAt     time.Time
	actorsCount   *atomic.Int64
	deadLetters   *atomic.Uint64
	processed     *atomic.Uint64
}

// NewSystem creates a System identified by id. The id must match
// address.SystemIDPattern.
func NewSystem(id string, opts ...Option) (*System, error) {
	if err := address.NewSystemIDValidator(id).Validate(); err != nil {
		return nil, err
	}

	system := &System{
		id:       id,
		delegate: NoDelegate,
		logger:   log.DefaultLogger,
		registry: shardedmap.New[ID, *record](func(id ID) uint64 {
			return shardedmap.Uint64Hasher(uint64(id))
		}),
		counter:      atomic.NewUint64(0),
		stopped:      atomic.NewBool(false),
		typePolicies: make(map[reflect.Type]*policy.Policy),
		events:       eventstream.New(),
		startedAt:    time.Now(),
		actorsCount:  atomic.NewInt64(0),
		deadLetters:  atomic.NewUint64(0),
		processed:    atomic.NewUint64(0),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := system.registerMetrics(); err != nil {
		return nil, err
	}

	system.logger.Debugf("actor system (%s) created", id)
	return system, nil
}

// ID returns the system identifier
func (x *System) ID() string {
	return x.id
}

// Logger returns the system logger
func (x *System) Logger() log.Logger {
	return x.logger
}

// Delegate returns the delegate used to reach foreign actors
func (x *System) Delegate() Delegate {
	return x.delegate
}

// Add registers the actor, runs its Initialize hook and returns its ID. The
// actor can receive messages once Add returned.
//
// When Initialize fails and the actor's error policy propagates the failure,
// the actor is removed, its Cleanup hook runs with the failure as cause, and
// Add returns an *errors.InitializationError.
func (x *System) Add(ctx context.Context, actor Actor, opts ...AddOption) (ID, error) {
	if isNil(actor) {
		return 0, gerrors.ErrInvalidActor
	}
	if x.stopped.Load() {
		return 0, gerrors.ErrSystemStopped
	}

	table := newHandlerTable()
	if handlers, ok := actor.(MessageHandlers); ok {
		handlers.Handlers(table)
	}
	if table.err != nil {
		return 0, table.err
	}

	config := newAddConfig(opts...)
	id := ID(x.counter.Inc() - 1)
	logger := x.logger.With("actor", id.String(), "system", x.id)
	rec := newRecord(id, actor, table, x.policyOf(actor, config), logger)
	x.registry.Store(id, rec)

	actx := x.newContext(ctx, rec)
	err := rec.policy.Run(func() error {
		return safeCall(func() error { return actor.Initialize(actx) })
	})
	if err != nil {
		x.registry.Delete(id)
		rec.set(terminated)
		x.cleanup(actx, rec, err)
		x.logger.Errorf("actor (%s) failed to initialize: %v", id, err)
		x.events.Publish(EventsTopic, &ActorFailed{ID: id, Err: err})
		return 0, gerrors.NewInitializationError(err)
	}

	rec.set(running)
	x.actorsCount.Inc()
	x.events.Publish(EventsTopic, &ActorStarted{ID: id, Type: reflect.TypeOf(actor).String()})

	if x.stopped.Load() {
		// Stop raced with the initialization
		_ = x.Shutdown(ctx, id)
		return 0, gerrors.ErrSystemStopped
	}

	x.logger.Debugf("actor (%s) added to system (%s)", id, x.id)
	return id, nil
}

// GetLocal returns a handle to a running actor of this system
func (x *System) GetLocal(id ID) (*Ref, error) {
	rec, ok := x.registry.Load(id)
	if !ok || !rec.isRunning() {
		return nil, gerrors.NewErrActorNotFound(id.String())
	}
	return &Ref{id: id, system: x}, nil
}

// Shutdown stops the actor: it waits for the running handler to return, runs
// the Deinitialize hook through the actor's error policy, runs Cleanup and
// removes the actor. Later messages to the actor fail with
// errors.ErrActorNotFound.
//
// Shutdown returns an *errors.DeinitializationError only when the policy
// propagated the Deinitialize failure. Shutting down an actor from one of its
// own handlers fails with errors.ErrReentrancy.
func (x *System) Shutdown(ctx context.Context, id ID) error {
	rec, ok := x.registry.Load(id)
	if !ok {
		return gerrors.NewErrActorNotFound(id.String())
	}
	if chainFrom(ctx).holds(x, id) {
		return gerrors.ErrReentrancy
	}
	if !rec.transition(running, deinitializing) {
		return gerrors.NewErrActorNotFound(id.String())
	}
	x.actorsCount.Dec()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	actx := x.newContext(ctx, rec)
	var cause error
	err := rec.policy.Run(func() error {
		cause = safeCall(func() error { return rec.actor.Deinitialize(actx) })
		return cause
	})

	x.cleanup(actx, rec, cause)
	x.registry.Delete(id)
	rec.set(terminated)
	x.events.Publish(EventsTopic, &ActorStopped{ID: id, Err: err})

	if err != nil {
		x.logger.Errorf("actor (%s) failed to deinitialize: %v", id, err)
		return gerrors.NewDeinitializationError(err)
	}

	x.logger.Debugf("actor (%s) shut down", id)
	return nil
}

// Stop shuts down every actor and rejects further registrations. It returns
// the Deinitialize failures of all actors combined.
func (x *System) Stop(ctx context.Context) error {
	if !x.stopped.CompareAndSwap(false, true) {
		return nil
	}

	chain := errorschain.New(errorschain.ReturnAll())
	for _, id := range x.Actors() {
		if err := x.Shutdown(ctx, id); err != nil && !errors.Is(err, gerrors.ErrActorNotFound) {
			chain.AddError(err)
		}
	}

	if x.registration != nil {
		chain.AddError(x.registration.Unregister())
	}

	x.events.Close()
	x.logger.Debugf("actor system (%s) stopped", x.id)
	return chain.Error()
}

// Actors returns the IDs of the running actors in ascending order
func (x *System) Actors() []ID {
	ids := make([]ID, 0, x.registry.Len())
	x.registry.Range(func(id ID, rec *record) bool {
		if rec.isRunning() {
			ids = append(ids, id)
		}
		return true
	})
	slices.Sort(ids)
	return ids
}

// Len returns the number of running actors
func (x *System) Len() int {
	return int(x.actorsCount.Load())
}

// Subscribe creates a subscriber to the system events: ActorStarted,
// ActorStopped, ActorFailed and DeadLetter.
func (x *System) Subscribe() (eventstream.Subscriber, error) {
	if x.stopped.Load() {
		return nil, gerrors.ErrSystemStopped
	}
	sub := x.events.AddSubscriber()
	x.events.Subscribe(sub, EventsTopic)
	return sub, nil
}

// Unsubscribe removes a subscriber created by Subscribe
func (x *System) Unsubscribe(sub eventstream.Subscriber) {
	x.events.RemoveSubscriber(sub)
}

func (x *System) policyOf(actor Actor, config *addConfig) *policy.Policy {
	if config.policy != nil {
		return config.policy
	}
	if p, ok := x.typePolicies[reflect.TypeOf(actor)]; ok && p != nil {
		return p
	}
	if provider, ok := actor.(PolicyProvider); ok {
		if p := provider.Policy(); p != nil {
			return p
		}
	}
	return propagateAll
}

func (x *System) newContext(ctx context.Context, rec *record) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	sender, hasSender := chainFrom(ctx).last(x)
	return &Context{
		ctx:       ctx,
		self:      rec.id,
		sender:    sender,
		hasSender: hasSender,
		system:    x,
		logger:    rec.logger,
	}
}

// cleanup runs the Cleanup hook. Its failure is only logged.
func (x *System) cleanup(ctx *Context, rec *record, cause error) {
	if err := safeCall(func() error { return rec.actor.Cleanup(ctx, cause) }); err != nil {
		x.logger.Warnf("actor (%s) cleanup failed: %v", rec.id, err)
	}
}

func (x *System) registerMetrics() error {
	if x.meterProvider == nil {
		return nil
	}

	meter := x.meterProvider.Meter(meterName)
	metrics, err := metric.NewSystemMetric(meter)
	if err != nil {
		return err
	}

	observeOptions := []otelmetric.ObserveOption{
		otelmetric.WithAttributes(attribute.String("actor.system", x.id)),
	}

	x.registration, err = meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(metrics.ActorsCount(), x.actorsCount.Load(), observeOptions...)
		observer.ObserveInt64(metrics.DeadlettersCount(), int64(x.deadLetters.Load()), observeOptions...)
		observer.ObserveInt64(metrics.ProcessedCount(), int64(x.processed.Load()), observeOptions...)
		observer.ObserveInt64(metrics.Uptime(), int64(time.Since(x.startedAt).Seconds()), observeOptions...)
		return nil
	}, metrics.Instruments()...)
	return err
}

func isNil(actor Actor) bool {
	if actor == nil {
		return true
	}
	value := reflect.ValueOf(actor)
	switch value.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return value.IsNil()
	default:
		return false
	}
}
