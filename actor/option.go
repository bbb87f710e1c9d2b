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
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/fluxion/log"
	"github.com/tochemey/fluxion/policy"
)

// Option is the interface that applies a System option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(system *System)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(system *System)

// Apply applies the options to the System
func (f OptionFunc) Apply(system *System) {
	f(system)
}

// WithDelegate sets the delegate used to reach foreign actors.
// The default delegate resolves nothing.
func WithDelegate(delegate Delegate) Option {
	return OptionFunc(func(system *System) {
		if delegate != nil {
			system.delegate = delegate
		}
	})
}

// WithLogger sets the system logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(system *System) {
		if logger != nil {
			system.logger = logger
		}
	})
}

// WithTypePolicy sets the error policy of every actor of the same concrete
// type as prototype. It is overridden by WithPolicy given to Add.
func WithTypePolicy(prototype Actor, p *policy.Policy) Option {
	return OptionFunc(func(system *System) {
		system.typePolicies[reflect.TypeOf(prototype)] = p
	})
}

// WithMetrics enables the OpenTelemetry instruments using the global meter provider
func WithMetrics() Option {
	return OptionFunc(func(system *System) {
		system.meterProvider = otel.GetMeterProvider()
	})
}

// WithMeterProvider enables the OpenTelemetry instruments using the given meter provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(system *System) {
		system.meterProvider = provider
	})
}

// AddOption configures a single actor registration
type AddOption interface {
	// Apply sets the AddOption value of a config.
	Apply(config *addConfig)
}

var _ AddOption = addOptionFunc(nil)

type addOptionFunc func(config *addConfig)

func (f addOptionFunc) Apply(config *addConfig) {
	f(config)
}

type addConfig struct {
	policy *policy.Policy
}

func newAddConfig(opts ...AddOption) *addConfig {
	config := new(addConfig)
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// WithPolicy sets the error policy of the actor being added. It takes
// precedence over WithTypePolicy and PolicyProvider.
func WithPolicy(p *policy.Policy) AddOption {
	return addOptionFunc(func(config *addConfig) {
		config.policy = p
	})
}
