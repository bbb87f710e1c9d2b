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

// Package connect implements a relay.Transport over a connect unary procedure
// served on HTTP/2 cleartext.
//
// Frames travel as google.protobuf.BytesValue bodies of
// /fluxion.relay.v1.RelayService/Deliver. The destination system is carried
// in the Fluxion-System header so one server can host several systems.
package connect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	connectrpc "connectrpc.com/connect"
	"go.uber.org/atomic"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tochemey/fluxion/internal/compression"
	fhttp "github.com/tochemey/fluxion/internal/http"
	"github.com/tochemey/fluxion/internal/validation"
	"github.com/tochemey/fluxion/internal/xsync"
	"github.com/tochemey/fluxion/log"
	"github.com/tochemey/fluxion/relay"
)

const (
	// DeliverProcedure is the connect procedure serving relay frames
	DeliverProcedure = "/fluxion.relay.v1.RelayService/Deliver"
	// SystemHeader names the destination system of a frame
	SystemHeader = "Fluxion-System"
	// OnewayHeader marks frames whose reply is discarded
	OnewayHeader = "Fluxion-Oneway"
)

// ErrNoListenAddr is returned by Start when Config.ListenAddr is empty
var ErrNoListenAddr = errors.New("connect: no listen address configured")

type client = connectrpc.Client[wrapperspb.BytesValue, wrapperspb.BytesValue]

// Transport is a relay.Transport backed by connect
type Transport struct {
	config     *Config
	logger     log.Logger
	httpClient connectrpc.HTTPClient

	peers    *xsync.Map[string, string]
	clients  *xsync.Map[string, *client]
	handlers *xsync.Map[string, relay.Handler]

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	closed   *atomic.Bool
}

var _ relay.Transport = (*Transport)(nil)

// NewTransport creates a connect transport. The configuration is validated.
func NewTransport(config *Config, opts ...Option) (*Transport, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	transport := &Transport{
		config:   config,
		logger:   log.DefaultLogger,
		peers:    xsync.NewMap[string, string](),
		clients:  xsync.NewMap[string, *client](),
		handlers: xsync.NewMap[string, relay.Handler](),
		closed:   atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(transport)
	}
	if transport.httpClient == nil {
		transport.httpClient = fhttp.NewClient(config.MaxReadFrameSize, 0)
	}
	for system, url := range config.Peers {
		transport.peers.Set(system, strings.TrimSuffix(url, "/"))
	}
	return transport, nil
}

// AddPeer makes system reachable at baseURL
func (t *Transport) AddPeer(system, baseURL string) error {
	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("system", system)).
		AddValidator(validation.NewURLValidator("baseURL", baseURL, "http", "https")).
		Validate(); err != nil {
		return err
	}
	t.peers.Set(system, strings.TrimSuffix(baseURL, "/"))
	t.clients.Delete(system)
	return nil
}

// RemovePeer forgets system
func (t *Transport) RemovePeer(system string) {
	t.peers.Delete(system)
	t.clients.Delete(system)
}

// Handler returns the path and the handler to mount on an HTTP server
func (t *Transport) Handler() (string, http.Handler) {
	return DeliverProcedure, connectrpc.NewUnaryHandler(DeliverProcedure, t.deliver, compression.HandlerOptions()...)
}

// Start serves the transport on Config.ListenAddr until Close
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.server != nil {
		return nil
	}
	if t.config.ListenAddr == "" {
		return ErrNoListenAddr
	}

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", t.config.ListenAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	path, handler := t.Handler()
	mux.Handle(path, handler)

	t.server = fhttp.NewServer(t.config.ListenAddr, mux, t.config.MaxReadFrameSize)
	t.listener = listener
	go func() {
		if err := t.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Errorf("connect transport server failed: %v", err)
		}
	}()

	t.logger.Infof("connect transport listening on %s", listener.Addr())
	return nil
}

// Addr returns the address the transport listens on, nil before Start
func (t *Transport) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// Listen implements relay.Transport
func (t *Transport) Listen(_ context.Context, system string, handler relay.Handler) (io.Closer, error) {
	if t.closed.Load() {
		return nil, relay.ErrTransportClosed
	}
	if !t.handlers.SetIfAbsent(system, handler) {
		return nil, fmt.Errorf("connect: system %s already listening", system)
	}
	return &registration{transport: t, system: system}, nil
}

// Request implements relay.Transport
func (t *Transport) Request(ctx context.Context, system string, frame []byte) ([]byte, error) {
	return t.call(ctx, system, frame, false)
}

// Publish implements relay.Transport
func (t *Transport) Publish(ctx context.Context, system string, frame []byte) error {
	_, err := t.call(ctx, system, frame, true)
	return err
}

// Close implements relay.Transport. It stops the server started by Start.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	t.handlers.Reset()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.server == nil {
		return nil
	}
	err := t.server.Shutdown(context.Background())
	t.server = nil
	t.listener = nil
	return err
}

func (t *Transport) call(ctx context.Context, system string, frame []byte, oneway bool) ([]byte, error) {
	if t.closed.Load() {
		return nil, relay.ErrTransportClosed
	}

	cl, err := t.client(system)
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.requestTimeout())
		defer cancel()
	}

	req := connectrpc.NewRequest(wrapperspb.Bytes(frame))
	req.Header().Set(SystemHeader, system)
	if oneway {
		req.Header().Set(OnewayHeader, "1")
	}

	resp, err := cl.CallUnary(ctx, req)
	if err != nil {
		if connectrpc.CodeOf(err) == connectrpc.CodeNotFound {
			return nil, fmt.Errorf("%w: %s: %v", relay.ErrUnreachable, system, err)
		}
		return nil, err
	}
	return resp.Msg.GetValue(), nil
}

func (t *Transport) client(system string) (*client, error) {
	if cl, ok := t.clients.Get(system); ok {
		return cl, nil
	}

	baseURL, ok := t.peers.Get(system)
	if !ok {
		return nil, fmt.Errorf("%w: %s", relay.ErrUnreachable, system)
	}

	cl := connectrpc.NewClient[wrapperspb.BytesValue, wrapperspb.BytesValue](
		t.httpClient,
		baseURL+DeliverProcedure,
		compression.ClientOptions(t.config.Compression)...,
	)
	t.clients.Set(system, cl)
	return cl, nil
}

func (t *Transport) deliver(ctx context.Context, req *connectrpc.Request[wrapperspb.BytesValue]) (*connectrpc.Response[wrapperspb.BytesValue], error) {
	system := req.Header().Get(SystemHeader)
	handler, ok := t.handlers.Get(system)
	if !ok {
		return nil, connectrpc.NewError(connectrpc.CodeNotFound, fmt.Errorf("system %q is not served here", system))
	}

	out := handler(ctx, req.Msg.GetValue())
	if req.Header().Get(OnewayHeader) != "" {
		out = nil
	}
	return connectrpc.NewResponse(wrapperspb.Bytes(out)), nil
}

type registration struct {
	transport *Transport
	system    string
	once      sync.Once
}

func (l *registration) Close() error {
	l.once.Do(func() {
		l.transport.handlers.Delete(l.system)
	})
	return nil
}
