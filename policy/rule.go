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

import "strconv"

type actionKind int

const (
	ignoreAction actionKind = iota
	retryAction
	propagateAction
)

// Action is what a policy does with an error matched by a rule.
//
//   - Ignore swallows the error: the operation is treated as a success.
//   - Retry re-invokes the operation up to n times. Once the budget is spent
//     the evaluation continues with the rules below.
//   - Propagate returns the error to the caller.
type Action struct {
	kind    actionKind
	retries int
}

// Ignore returns the action that swallows the error
func Ignore() Action {
	return Action{kind: ignoreAction}
}

// Retry returns the action that re-invokes the operation up to n times
func Retry(n int) Action {
	if n < 0 {
		n = 0
	}
	return Action{kind: retryAction, retries: n}
}

// Propagate returns the action that hands the error back to the caller
func Propagate() Action {
	return Action{kind: propagateAction}
}

// String returns the string representation of the action
func (a Action) String() string {
	switch a.kind {
	case ignoreAction:
		return "Ignore"
	case retryAction:
		return "Retry(" + strconv.Itoa(a.retries) + ")"
	case propagateAction:
		return "Propagate"
	default:
		return ""
	}
}

// Rule pairs a Predicate with the Action to take when it matches.
type Rule struct {
	predicate Predicate
	action    Action
}

var _ Option = Rule{}

// When creates a Rule
func When(predicate Predicate, action Action) Rule {
	return Rule{predicate: predicate, action: action}
}

// Action returns the rule's action
func (r Rule) Action() Action {
	return r.action
}

// Apply appends the rule to the policy
func (r Rule) Apply(policy *Policy) {
	policy.rules = append(policy.rules, r)
}
