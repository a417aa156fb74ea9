// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

type discardHandler struct{}

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler { return discardHandler{} }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }

// JSONHandler returns a handler which prints every record as a JSON object.
func JSONHandler(wr io.Writer) slog.Handler {
	return JSONHandlerWithLevel(wr, allLevels())
}

// JSONHandlerWithLevel is like JSONHandler, but drops records below level.
// The level can be changed while the handler is in use.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replaceAttr(false),
		Level:       level,
	})
}

// LogfmtHandler returns a handler which prints records as logfmt key/value pairs.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return LogfmtHandlerWithLevel(wr, allLevels())
}

// LogfmtHandlerWithLevel is like LogfmtHandler, but drops records below level.
func LogfmtHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replaceAttr(true),
		Level:       level,
	})
}

func allLevels() *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(levelMaxVerbosity)
	return level
}

// replaceAttr shortens the builtin keys to t and lvl, and renders the
// numeric and byte types the relay logs in a readable form.
func replaceAttr(logfmt bool) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, attr slog.Attr) slog.Attr {
		switch attr.Key {
		case slog.TimeKey:
			if attr.Value.Kind() != slog.KindTime {
				break
			}
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		case slog.LevelKey:
			if l, ok := attr.Value.Any().(slog.Level); ok {
				return slog.String("lvl", LevelString(l))
			}
		}
		if s, ok := formatValue(attr.Value.Any(), logfmt); ok {
			attr.Value = slog.StringValue(s)
		}
		return attr
	}
}

func formatValue(v any, logfmt bool) (string, bool) {
	switch v := v.(type) {
	case time.Time:
		return v.Format(timeFormat), logfmt
	case *big.Int:
		if v == nil {
			return "<nil>", true
		}
		return v.String(), true
	case *uint256.Int:
		if v == nil {
			return "<nil>", true
		}
		return v.Dec(), true
	case []byte:
		return hexutil.Encode(v), true
	case fmt.Stringer:
		if isNil(v) {
			return "<nil>", true
		}
		return v.String(), true
	}
	return "", false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
