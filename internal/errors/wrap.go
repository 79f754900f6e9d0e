package errors

import "fmt"

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage.
//
// The wrapped error preserves the original error chain, so callers can still
// classify failures:
//
//	if err := stage.CreateDex(ctx); err != nil {
//	    return errors.Wrap(err, "create-dex")
//	}
//
//	if errors.Is(err, errors.ErrToolInvocationFailed) {
//	    // an external tool exited non-zero
//	}
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil.
//
//	return errors.Wrapf(err, "failed to resolve %d dependencies", len(deps))
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}
