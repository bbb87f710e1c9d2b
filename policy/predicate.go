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

import (
	"errors"
	"reflect"
)

// Predicate decides whether a rule applies to an error.
type Predicate func(err error) bool

// Always matches every error.
func Always() Predicate {
	return func(error) bool { return true }
}

// Is matches errors for which errors.Is(err, target) holds.
func Is(target error) Predicate {
	return func(err error) bool { return errors.Is(err, target) }
}

// OfType matches errors whose chain holds an error of the same concrete type
// as the given one. OfType(new(MyError)) matches any *MyError.
func OfType(err error) Predicate {
	want := errorType(err)
	return func(err error) bool {
		return inChain(err, func(e error) bool { return errorType(e) == want })
	}
}

// Match wraps an arbitrary function as a Predicate.
func Match(fn func(err error) bool) Predicate {
	return fn
}

// Not negates a Predicate.
func Not(p Predicate) Predicate {
	return func(err error) bool { return !p(err) }
}

func inChain(err error, fn func(error) bool) bool {
	if err == nil {
		return false
	}
	if fn(err) {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() error }:
		return inChain(x.Unwrap(), fn)
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if inChain(e, fn) {
				return true
			}
		}
	}
	return false
}

// errorType returns the string representation of an error's type using reflection
func errorType(err error) string {
	if err == nil {
		return "nil"
	}
	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Pointer {
		return "*" + rtype.Elem().String()
	}
	return rtype.String()
}
