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

package actor

import (
	"fmt"
	"reflect"

	"github.com/tochemey/fluxion/internal/shardedmap"
	"github.com/tochemey/fluxion/internal/types"
)

// Kind tells a request contract from a notification contract
type Kind int

const (
	// KindMessage is the kind of a Contract
	KindMessage Kind = iota
	// KindNotification is the kind of a Notification
	KindNotification
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindNotification:
		return "notification"
	default:
		return ""
	}
}

// ContractInfo is the type-erased description of a contract. Delegates use it
// to encode messages and decode responses.
type ContractInfo struct {
	// ID is the contract identity, stable across processes
	ID string
	// Message is the request or notification type
	Message reflect.Type
	// Response is the response type. It is nil for notifications.
	Response reflect.Type
	// Kind is the contract kind
	Kind Kind
}

// contracts is the process-wide catalog of contracts keyed by identity
var contracts = shardedmap.New[string, ContractInfo](shardedmap.StringHasher)

// LookupContract returns the contract registered under the given identity
func LookupContract(id string) (ContractInfo, bool) {
	return contracts.Load(id)
}

func register(info ContractInfo) ContractInfo {
	existing, loaded := contracts.LoadOrStore(info.ID, info)
	if loaded && (existing.Message != info.Message || existing.Response != info.Response || existing.Kind != info.Kind) {
		panic(fmt.Sprintf("actor: contract %q already registered with message=%v response=%v kind=%s",
			info.ID, existing.Message, existing.Response, existing.Kind))
	}
	return existing
}

// Contract binds a message type M to its response type R under a string
// identity. Contracts are usually declared once as package variables:
//
//	var PingContract = actor.NewContract[Ping, Pong]()
type Contract[M, R any] struct {
	info ContractInfo
}

// NewContract creates a contract whose identity is the lowercased qualified
// type name of M, for instance "main.ping".
//
// It panics when the identity is already registered with different types.
func NewContract[M, R any]() Contract[M, R] {
	return NamedContract[M, R](types.Name(reflect.TypeFor[M]()))
}

// NamedContract creates a contract with an explicit identity. Use it when the
// contract travels between processes built from different packages.
//
// It panics when the identity is already registered with different types.
func NamedContract[M, R any](id string) Contract[M, R] {
	return Contract[M, R]{
		info: register(ContractInfo{
			ID:       id,
			Message:  reflect.TypeFor[M](),
			Response: reflect.TypeFor[R](),
			Kind:     KindMessage,
		}),
	}
}

// ID returns the contract identity
func (c Contract[M, R]) ID() string {
	return c.info.ID
}

// Info returns the type-erased description of the contract
func (c Contract[M, R]) Info() ContractInfo {
	return c.info
}

// Notification is a broadcast contract: a payload type without response.
type Notification[N any] struct {
	info ContractInfo
}

// NewNotification creates a notification whose identity is the lowercased
// qualified type name of N.
func NewNotification[N any]() Notification[N] {
	return NamedNotification[N](types.Name(reflect.TypeFor[N]()))
}

// NamedNotification creates a notification with an explicit identity.
func NamedNotification[N any](id string) Notification[N] {
	return Notification[N]{
		info: register(ContractInfo{
			ID:      id,
			Message: reflect.TypeFor[N](),
			Kind:    KindNotification,
		}),
	}
}

// ID returns the notification identity
func (n Notification[N]) ID() string {
	return n.info.ID
}

// Info returns the type-erased description of the notification
func (n Notification[N]) Info() ContractInfo {
	return n.info
}

// coerce converts an erased value into T. It accepts a T, a non-nil *T, or
// the value pointed to when T is a pointer type.
func coerce[T any](v any) (T, bool) {
	var zero T
	if v == nil {
		kind := reflect.TypeFor[T]().Kind()
		return zero, kind == reflect.Interface || kind == reflect.Pointer
	}
	if t, ok := v.(T); ok {
		return t, true
	}
	if p, ok := v.(*T); ok && p != nil {
		return *p, true
	}
	target := reflect.TypeFor[T]()
	value := reflect.ValueOf(v)
	if target.Kind() == reflect.Pointer && value.Type() == target.Elem() {
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(value)
		return ptr.Interface().(T), true
	}
	return zero, false
}
