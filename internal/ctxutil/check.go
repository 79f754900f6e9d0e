// Package ctxutil holds the cancellation checks stages make before starting
// work.
package ctxutil

import (
	"context"
	"fmt"

	"github.com/android-clojure/droid/internal/errors"
)

// Canceled returns ctx.Err(): nil while the context is live, Canceled or
// DeadlineExceeded once it is done.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Check is Canceled classified for the user: a done context yields an error
// matching both ErrOperationCanceled and the context error.
func Check(ctx context.Context, what string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrOperationCanceled, what, err)
	}
	return nil
}
