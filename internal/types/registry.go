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

// Package types keeps a registry of Go types addressable by name. Serializers
// use it to rebuild a value from the type name carried on the wire.
package types

import (
	"reflect"
	"strings"

	"github.com/tochemey/fluxion/internal/xsync"
)

// Registry maps type names to Go types. Pointers are recorded as their
// element type.
type Registry interface {
	// Register records the type of v. v can be a value, a pointer or a reflect.Type.
	Register(v any)
	// Deregister forgets the type of v
	Deregister(v any)
	// Exists reports whether the type of v is registered
	Exists(v any) bool
	// TypeOf returns the type registered under name. The lookup ignores case.
	TypeOf(name string) (reflect.Type, bool)
	// Len returns the number of registered types
	Len() int
}

type registry struct {
	types *xsync.Map[string, reflect.Type]
}

var _ Registry = (*registry)(nil)

// NewRegistry creates an empty Registry
func NewRegistry() Registry {
	return &registry{types: xsync.NewMap[string, reflect.Type]()}
}

func (r *registry) Register(v any) {
	if rtype := Of(v); rtype != nil {
		r.types.Set(nameOf(rtype), rtype)
	}
}

func (r *registry) Deregister(v any) {
	r.types.Delete(Name(v))
}

func (r *registry) Exists(v any) bool {
	_, ok := r.types.Get(Name(v))
	return ok
}

func (r *registry) TypeOf(name string) (reflect.Type, bool) {
	return r.types.Get(strings.ToLower(strings.TrimSpace(name)))
}

func (r *registry) Len() int {
	return r.types.Len()
}

// Of returns the runtime type of v with every pointer level removed. v can
// itself be a reflect.Type. Of(nil) is nil.
func Of(v any) reflect.Type {
	var rtype reflect.Type
	switch t := v.(type) {
	case nil:
		return nil
	case reflect.Type:
		rtype = t
	default:
		rtype = reflect.TypeOf(v)
	}
	for rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	return rtype
}

// Name returns the registry name of the type of v: the lowercased qualified
// Go type name, for instance "main.ping". Name(nil) is empty.
func Name(v any) string {
	if rtype := Of(v); rtype != nil {
		return nameOf(rtype)
	}
	return ""
}

func nameOf(rtype reflect.Type) string {
	return strings.ToLower(rtype.String())
}
