// Package probe invokes host functions without letting a misbehaving host
// take down the caller.
package probe

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Call invokes fn once. Panics become errors and, when timeout is positive,
// the call is bounded by a deadline derived from ctx.
func Call(ctx context.Context, timeout time.Duration, fn host.Func, args []host.Arg) (result value.Value, err error) {
	if fn == nil {
		return value.Null(), errors.InvalidArgument("probe function is required")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			result = value.Null()
			err = errors.Internalf("host call panicked: %v", r)
		}
	}()

	result, err = fn(ctx, args)
	if err == nil && ctx.Err() != nil {
		err = errors.Wrap(ctx.Err(), "host call did not settle")
	}
	return result, err
}

// Construct invokes a constructor with the same protections as Call
func Construct(ctx context.Context, timeout time.Duration, fn host.Constructor, args []host.Arg) (obj host.Object, err error) {
	if fn == nil {
		return nil, errors.InvalidArgument("probe constructor is required")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			obj = nil
			err = errors.Internalf("host constructor panicked: %v", r)
		}
	}()

	obj, err = fn(ctx, args)
	if err == nil && ctx.Err() != nil {
		err = errors.Wrap(ctx.Err(), "host constructor did not settle")
	}
	return obj, err
}
