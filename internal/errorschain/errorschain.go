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

// Package errorschain collects the errors of a sequence of steps.
package errorschain

import "go.uber.org/multierr"

// Chain accumulates non-nil errors in insertion order
type Chain struct {
	returnFirst bool
	errs        []error
}

// ChainOption configures a Chain
type ChainOption func(*Chain)

// ReturnFirst makes Error report only the first error collected
func ReturnFirst() ChainOption {
	return func(c *Chain) { c.returnFirst = true }
}

// ReturnAll makes Error combine every error collected. This is the default.
func ReturnAll() ChainOption {
	return func(c *Chain) { c.returnFirst = false }
}

// New creates a Chain
func New(opts ...ChainOption) *Chain {
	c := new(Chain)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddError collects err when it is not nil
func (c *Chain) AddError(err error) *Chain {
	if err != nil {
		c.errs = append(c.errs, err)
	}
	return c
}

// AddErrors collects every non-nil error of errs
func (c *Chain) AddErrors(errs ...error) *Chain {
	for _, err := range errs {
		c.AddError(err)
	}
	return c
}

// AddErrorFn runs fn and collects its error. With ReturnFirst, fn is skipped
// once an error has been collected.
func (c *Chain) AddErrorFn(fn func() error) *Chain {
	if c.returnFirst && len(c.errs) > 0 {
		return c
	}
	return c.AddError(fn())
}

// Error returns the collected error, nil when there is none
func (c *Chain) Error() error {
	switch {
	case len(c.errs) == 0:
		return nil
	case c.returnFirst:
		return c.errs[0]
	default:
		return multierr.Combine(c.errs...)
	}
}
