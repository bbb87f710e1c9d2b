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

package log

import (
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogger writes JSON entries at InfoLevel and above to os.Stdout
var DefaultLogger Logger = NewZap(InfoLevel, os.Stdout)

// Zap is a Logger writing JSON entries through zap
type Zap struct {
	*zap.SugaredLogger
	core    zapcore.Core
	outputs []io.Writer
}

var _ Logger = (*Zap)(nil)

// NewZap creates a Zap logger writing entries at level and above to writers
func NewZap(level Level, writers ...io.Writer) *Zap {
	syncers := make([]zapcore.WriteSyncer, len(writers))
	for i, w := range writers {
		syncers[i] = zapcore.AddSync(w)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zap.CombineWriteSyncers(syncers...),
		zapcore.Level(level),
	)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Zap{SugaredLogger: logger.Sugar(), core: core, outputs: writers}
}

// With returns a Logger adding the key-value pairs to every entry. Keys must
// be strings; a trailing key without value is logged under "_".
func (z *Zap) With(keyValues ...any) Logger {
	if len(keyValues) == 0 {
		return z
	}

	fields := make([]any, 0, len(keyValues)/2+1)
	for i := 0; i < len(keyValues); i += 2 {
		if i+1 == len(keyValues) {
			fields = append(fields, zap.Any("_", keyValues[i]))
			break
		}
		if key, ok := keyValues[i].(string); ok {
			fields = append(fields, zap.Any(key, keyValues[i+1]))
		}
	}
	return &Zap{SugaredLogger: z.SugaredLogger.With(fields...), core: z.core, outputs: z.outputs}
}

// Enabled implements Logger
func (z *Zap) Enabled(level Level) bool {
	return z.core.Enabled(zapcore.Level(level))
}

// Flush syncs file outputs. Standard streams are skipped since syncing them
// fails on most terminals.
func (z *Zap) Flush() error {
	var err error
	for _, output := range z.outputs {
		if file, ok := output.(*os.File); ok && file != os.Stdout && file != os.Stderr {
			err = multierr.Append(err, file.Sync())
		}
	}
	return err
}
