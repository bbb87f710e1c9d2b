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

package nats

import (
	"errors"
	"time"

	"github.com/tochemey/fluxion/internal/validation"
)

const (
	// DefaultSubjectPrefix is the subject prefix used when none is configured
	DefaultSubjectPrefix = "fluxion.relay"
	// DefaultRequestTimeout bounds requests issued without a context deadline
	DefaultRequestTimeout = 5 * time.Second
	// DefaultMaxRetries is the number of connection attempts
	DefaultMaxRetries = 5
)

var errInvalidPrefix = errors.New("nats: invalid subject prefix")

// Config defines the NATS transport settings
type Config struct {
	// Server defines the nats server in the format nats://host:port
	Server string
	// SubjectPrefix prefixes the subject of every system. Frames addressed to
	// system "orders" travel on "<SubjectPrefix>.orders".
	SubjectPrefix string
	// Name is the client connection name
	Name string
	// RequestTimeout bounds requests issued with a context without deadline.
	// It also bounds the handling of an inbound frame.
	RequestTimeout time.Duration
	// MaxRetries is the number of connection attempts
	MaxRetries int
}

// Validate checks the configuration
func (x Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("Server", x.Server)).
		AddValidator(validation.NewURLValidator("Server", x.Server, "nats", "tls")).
		AddValidator(validation.NewPatternValidator(`^[a-zA-Z0-9_-]+(\.[a-zA-Z0-9_-]+)*$`, x.subjectPrefix(), errInvalidPrefix)).
		AddAssertion(x.RequestTimeout >= 0, "RequestTimeout must not be negative").
		AddAssertion(x.MaxRetries >= 0, "MaxRetries must not be negative").
		Validate()
}

func (x Config) subjectPrefix() string {
	if x.SubjectPrefix == "" {
		return DefaultSubjectPrefix
	}
	return x.SubjectPrefix
}

func (x Config) requestTimeout() time.Duration {
	if x.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return x.RequestTimeout
}

func (x Config) maxRetries() int {
	if x.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return x.MaxRetries
}
