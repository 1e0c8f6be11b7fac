package tokenswap

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the tokenswap module

const (
	contextKeyLogger contextKey = iota
	contextKeyRent
)

// DefaultLogger is used for all context that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()

// WithLogger sets the logger for this context
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx context.Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// WithRent sets the rent parameters programs use to size reserves.
func WithRent(ctx context.Context, rent Rent) context.Context {
	return context.WithValue(ctx, contextKeyRent, rent)
}

// GetRent returns the rent parameters, or DefaultRent if none were set.
func GetRent(ctx context.Context) Rent {
	val, ok := ctx.Value(contextKeyRent).(Rent)
	if !ok {
		return DefaultRent()
	}
	return val
}
