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

// Package policy implements error policies: ordered tables of rules deciding
// whether a failed operation is retried, ignored or reported.
//
// A policy is evaluated each time the operation fails. Rules are tried top to
// bottom and the first one whose predicate matches decides. A Retry rule with a
// spent budget does not decide: the evaluation goes on with the rules below it.
// When no rule decides the default action applies.
//
//	p := policy.New(
//		policy.When(policy.Is(ErrTransient), policy.Retry(3)),
//		policy.When(policy.Always(), policy.Propagate()),
//	)
//	err := p.Run(connect)
//
// A Policy is immutable once created and can be shared between actors. Retry
// budgets are scoped to a single Run.
package policy

import (
	"github.com/tochemey/fluxion/errors"
	"github.com/tochemey/fluxion/log"
)

// Policy is an ordered table of error rules
type Policy struct {
	rules         []Rule
	fallback      Action
	notifications bool
	logger        log.Logger
}

// New creates a Policy. Rules are options too: they are evaluated in the
// order they are given.
func New(opts ...Option) *Policy {
	p := &Policy{
		fallback: Ignore(),
		logger:   log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(p)
	}
	return p
}

// Len returns the number of rules
func (p *Policy) Len() int {
	return len(p.rules)
}

// AppliesToNotifications reports whether the policy governs notification handlers
func (p *Policy) AppliesToNotifications() bool {
	return p.notifications
}

// Default returns the action taken when no rule matches
func (p *Policy) Default() Action {
	return p.fallback
}

// Run invokes op and applies the policy to its failures. It returns nil when
// op eventually succeeds or its error is ignored. A propagated error is
// returned as is, unless retries were spent before, in which case it is joined
// with errors.ErrPolicyExhausted.
func (p *Policy) Run(op func() error) error {
	// the last slot holds the default action budget
	budgets := make([]int, len(p.rules)+1)
	for i, rule := range p.rules {
		budgets[i] = rule.action.retries
	}
	budgets[len(p.rules)] = p.fallback.retries

	exhausted := false
	attempts := 1
	err := op()
	for err != nil {
		action, index := p.decide(err, budgets, &exhausted)
		switch action.kind {
		case ignoreAction:
			p.logger.Debugf("error ignored after %d attempt(s): %v", attempts, err)
			return nil
		case propagateAction:
			if exhausted {
				return errors.NewErrPolicyExhausted(err)
			}
			return err
		case retryAction:
			budgets[index]--
			attempts++
			p.logger.Debugf("retrying after error (attempt=%d): %v", attempts, err)
			err = op()
		}
	}
	return nil
}

// decide returns the action to apply to err. A retry action is only returned
// when its rule still has budget. Spent retry rules set exhausted.
func (p *Policy) decide(err error, budgets []int, exhausted *bool) (Action, int) {
	for i, rule := range p.rules {
		if !rule.predicate(err) {
			continue
		}
		if rule.action.kind != retryAction {
			return rule.action, i
		}
		if budgets[i] > 0 {
			return rule.action, i
		}
		*exhausted = true
	}

	index := len(p.rules)
	if p.fallback.kind != retryAction {
		return p.fallback, index
	}
	if budgets[index] > 0 {
		return p.fallback, index
	}
	*exhausted = true
	return Propagate(), index
}
