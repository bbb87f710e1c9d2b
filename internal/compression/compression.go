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

// Package compression adapts zstd and brotli to connect's pluggable
// compressor interfaces so the connect relay transport can negotiate them
// next to connect's built-in gzip.
package compression

import (
	"io"
	"sync"

	"connectrpc.com/connect"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// Names registered with connect. They follow the HTTP content-coding tokens.
const (
	Zstd   = "zstd"
	Brotli = "br"
	Gzip   = "gzip"
)

var zstdEncoders = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return &failedWriter{err: err}
		}
		return enc
	},
}

// NewZstdCompressor returns a connect.Compressor backed by a pooled zstd encoder
func NewZstdCompressor() connect.Compressor {
	switch enc := zstdEncoders.Get().(type) {
	case *zstd.Encoder:
		return &zstdCompressor{encoder: enc}
	case *failedWriter:
		return enc
	default:
		return &failedWriter{err: io.ErrClosedPipe}
	}
}

type zstdCompressor struct {
	encoder *zstd.Encoder
}

func (c *zstdCompressor) Write(p []byte) (int, error) {
	if c.encoder == nil {
		return 0, io.ErrClosedPipe
	}
	return c.encoder.Write(p)
}

func (c *zstdCompressor) Reset(w io.Writer) {
	if c.encoder == nil {
		enc, ok := zstdEncoders.Get().(*zstd.Encoder)
		if !ok {
			return
		}
		c.encoder = enc
	}
	c.encoder.Reset(w)
}

// Close flushes the frame and returns the encoder to the pool. connect calls
// Reset before reusing the compressor.
func (c *zstdCompressor) Close() error {
	if c.encoder == nil {
		return nil
	}
	err := c.encoder.Close()
	c.encoder.Reset(nil)
	zstdEncoders.Put(c.encoder)
	c.encoder = nil
	return err
}

// NewZstdDecompressor returns a connect.Decompressor backed by zstd
func NewZstdDecompressor() connect.Decompressor {
	return &zstdDecompressor{}
}

type zstdDecompressor struct {
	decoder *zstd.Decoder
}

func (d *zstdDecompressor) Read(p []byte) (int, error) {
	if d.decoder == nil {
		return 0, io.EOF
	}
	return d.decoder.Read(p)
}

func (d *zstdDecompressor) Reset(r io.Reader) error {
	if d.decoder == nil {
		var err error
		d.decoder, err = zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		return err
	}
	return d.decoder.Reset(r)
}

func (d *zstdDecompressor) Close() error {
	if d.decoder != nil {
		d.decoder.Close()
		d.decoder = nil
	}
	return nil
}

// NewBrotliCompressor returns a connect.Compressor backed by brotli
func NewBrotliCompressor() connect.Compressor {
	return brotli.NewWriterLevel(nil, brotli.DefaultCompression)
}

// NewBrotliDecompressor returns a connect.Decompressor backed by brotli
func NewBrotliDecompressor() connect.Decompressor {
	return &brotliDecompressor{reader: brotli.NewReader(nil)}
}

type brotliDecompressor struct {
	reader *brotli.Reader
}

func (d *brotliDecompressor) Read(p []byte) (int, error) { return d.reader.Read(p) }

func (d *brotliDecompressor) Reset(r io.Reader) error { return d.reader.Reset(r) }

func (d *brotliDecompressor) Close() error { return nil }

type failedWriter struct {
	err error
}

func (f *failedWriter) Write([]byte) (int, error) { return 0, f.err }
func (f *failedWriter) Reset(io.Writer)           {}
func (f *failedWriter) Close() error              { return f.err }
