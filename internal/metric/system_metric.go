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

package metric

import "go.opentelemetry.io/otel/metric"

// SystemMetric groups the OpenTelemetry instruments that describe an actor
// system.
//
// Instruments:
//   - fluxion.actors.count        (Int64ObservableCounter)
//   - fluxion.deadletters.count   (Int64ObservableCounter)
//   - fluxion.processed.count     (Int64ObservableCounter)
//   - fluxion.uptime              (Int64ObservableCounter, unit: seconds)
type SystemMetric struct {
	actorsCount      metric.Int64ObservableCounter
	deadlettersCount metric.Int64ObservableCounter
	processedCount   metric.Int64ObservableCounter
	uptime           metric.Int64ObservableCounter
}

// NewSystemMetric creates the system instruments using the provided Meter.
func NewSystemMetric(meter metric.Meter) (*SystemMetric, error) {
	var instruments SystemMetric
	var err error

	if instruments.actorsCount, err = meter.Int64ObservableCounter(
		"fluxion.actors.count",
		metric.WithDescription("Total number of running actors in the system"),
	); err != nil {
		return nil, err
	}

	if instruments.deadlettersCount, err = meter.Int64ObservableCounter(
		"fluxion.deadletters.count",
		metric.WithDescription("Total number of notifications that could not be delivered"),
	); err != nil {
		return nil, err
	}

	if instruments.processedCount, err = meter.Int64ObservableCounter(
		"fluxion.processed.count",
		metric.WithDescription("Total number of messages processed by the actors of the system"),
	); err != nil {
		return nil, err
	}

	if instruments.uptime, err = meter.Int64ObservableCounter(
		"fluxion.uptime",
		metric.WithDescription("Uptime of the actor system in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// ActorsCount returns the counter of running actors
func (x *SystemMetric) ActorsCount() metric.Int64ObservableCounter {
	return x.actorsCount
}

// DeadlettersCount returns the counter of undelivered notifications
func (x *SystemMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return x.deadlettersCount
}

// ProcessedCount returns the counter of processed messages
func (x *SystemMetric) ProcessedCount() metric.Int64ObservableCounter {
	return x.processedCount
}

// Uptime returns the uptime counter
func (x *SystemMetric) Uptime() metric.Int64ObservableCounter {
	return x.uptime
}

// Instruments returns every instrument, for Meter.RegisterCallback
func (x *SystemMetric) Instruments() []metric.Observable {
	return []metric.Observable{
		x.actorsCount,
		x.deadlettersCount,
		x.processedCount,
		x.uptime,
	}
}
