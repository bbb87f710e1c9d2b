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

package errorschain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestErrorsChain(t *testing.T) {
	t.Run("With ReturnFirst", func(t *testing.T) {
		e1 := errors.New("err1")
		e2 := errors.New("err2")
		e3 := errors.New("err3")

		chain := New(ReturnFirst()).AddError(e1).AddError(e2).AddError(e3)
		actual := chain.Error()
		require.True(t, errors.Is(actual, e1))
		require.False(t, errors.Is(actual, e2))
	})

	t.Run("With nil errors", func(t *testing.T) {
		chain := New(ReturnFirst()).AddError(nil)
		require.NoError(t, chain.Error())
	})

	t.Run("With ReturnAll", func(t *testing.T) {
		e1 := errors.New("err1")
		e2 := errors.New("err2")

		chain := New(ReturnAll()).AddErrors(e1, nil, e2)
		actual := chain.Error()
		require.Len(t, multierr.Errors(actual), 2)
		require.ErrorIs(t, actual, e1)
		require.ErrorIs(t, actual, e2)
	})

	t.Run("With AddErrorFn ReturnFirst", func(t *testing.T) {
		calledFn2 := false
		fn1 := func() error { return errors.New("err1") }
		fn2 := func() error { calledFn2 = true; return errors.New("err2") }

		actual := New(ReturnFirst()).AddErrorFn(fn1).AddErrorFn(fn2).Error()
		require.EqualError(t, actual, "err1")
		require.False(t, calledFn2)
	})

	t.Run("With AddErrorFn ReturnAll", func(t *testing.T) {
		calls := 0
		fn := func() error { calls++; return errors.New("err") }

		actual := New(ReturnAll()).AddErrorFn(fn).AddErrorFn(fn).Error()
		require.Error(t, actual)
		require.Equal(t, 2, calls)
		require.Len(t, multierr.Errors(actual), 2)
	})
}
