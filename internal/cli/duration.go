package cli

import (
	"fmt"
	"time"

	"github.com/android-clojure/droid/internal/errors"
)

// durationFlag is a pflag.Value that remembers whether it was set.
type durationFlag struct {
	d   time.Duration
	set bool
}

func (f *durationFlag) String() string {
	if !f.set {
		return ""
	}
	return f.d.String()
}

func (f *durationFlag) Set(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fmt.Errorf("%w: duration %q", errors.ErrInvalidArgument, s)
	}
	f.d, f.set = d, true
	return nil
}

func (f *durationFlag) Type() string {
	return "duration"
}
