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

package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// ErrInvalidExpression is returned by pattern validators built without a
// custom error.
var ErrInvalidExpression = errors.New("invalid expression")

// NewBooleanValidator fails with message when check is false
func NewBooleanValidator(check bool, message string) Validator {
	return ValidatorFunc(func() error {
		if check {
			return nil
		}
		return errors.New(message)
	})
}

// NewEmptyStringValidator fails when value is blank
func NewEmptyStringValidator(field, value string) Validator {
	return ValidatorFunc(func() error {
		if strings.TrimSpace(value) != "" {
			return nil
		}
		return fmt.Errorf("the [%s] is required", field)
	})
}

// compiled caches the regular expressions of pattern validators
var compiled sync.Map

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := compiled.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	compiled.Store(pattern, re)
	return re, nil
}

// NewPatternValidator fails with customErr, or ErrInvalidExpression when nil,
// when expression does not match pattern. An invalid pattern always fails.
func NewPatternValidator(pattern, expression string, customErr error) Validator {
	if customErr == nil {
		customErr = ErrInvalidExpression
	}
	return ValidatorFunc(func() error {
		re, err := compile(pattern)
		if err != nil {
			return errors.Join(customErr, err)
		}
		if !re.MatchString(expression) {
			return customErr
		}
		return nil
	})
}

// NewURLValidator fails when value is not an absolute URL with a host. When
// schemes are given the URL scheme must be one of them.
func NewURLValidator(field, value string, schemes ...string) Validator {
	return ValidatorFunc(func() error {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("the [%s] is not a valid url: %q", field, value)
		}
		if len(schemes) > 0 && !slices.Contains(schemes, u.Scheme) {
			return fmt.Errorf("the [%s] scheme must be one of %v", field, schemes)
		}
		return nil
	})
}
