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

package policy

import "github.com/tochemey/fluxion/log"

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(policy *Policy)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(policy *Policy)

// Apply applies the options to the Policy
func (f OptionFunc) Apply(policy *Policy) {
	f(policy)
}

// WithDefault sets the action taken when no rule matches. The default is Ignore.
func WithDefault(action Action) Option {
	return OptionFunc(func(policy *Policy) {
		policy.fallback = action
	})
}

// ApplyToNotifications makes the policy also govern notification handler
// failures. Without it notification failures are only logged.
func ApplyToNotifications() Option {
	return OptionFunc(func(policy *Policy) {
		policy.notifications = true
	})
}

// WithLogger sets the logger used to report retried and ignored errors
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(policy *Policy) {
		policy.logger = logger
	})
}
