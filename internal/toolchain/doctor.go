package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/android-clojure/droid/internal/constants"
)

// CheckStatus is the outcome of one doctor check.
type CheckStatus int

const (
	// CheckMissing indicates the artifact was not found.
	CheckMissing CheckStatus = iota

	// CheckFound indicates the artifact exists.
	CheckFound
)

// String returns a human-readable representation of the status.
func (s CheckStatus) String() string {
	if s == CheckFound {
		return "found"
	}
	return "missing"
}

// MarshalJSON renders the status as its string form.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Check is the result for one toolchain artifact or JDK tool.
type Check struct {
	Name   string      `json:"name"`
	Path   string      `json:"path"`
	Status CheckStatus `json:"status"`
	Hint   string      `json:"hint,omitempty"`
}

// Report holds every doctor check in a stable order.
type Report struct {
	Checks  []Check `json:"checks"`
	Healthy bool    `json:"healthy"`
}

// Missing returns the checks that failed.
func (r *Report) Missing() []Check {
	var out []Check
	for _, c := range r.Checks {
		if c.Status != CheckFound {
			out = append(out, c)
		}
	}
	return out
}

// JDKTools names the JDK executables the pipeline invokes.
type JDKTools struct {
	Javac, Java, Jarsigner, Keytool string
}

// LookPathFunc resolves a bare executable name on PATH.
type LookPathFunc func(string) (string, error)

type probe struct {
	name, path, hint string
	lookup           bool
}

// Doctor checks every SDK artifact and JDK tool concurrently.
// Checks never fail the call; the returned Report says what is missing.
func Doctor(ctx context.Context, r *Resolver, jdk JDKTools, lookPath LookPathFunc) (*Report, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	sdkHint := "set sdk.path or ANDROID_HOME to an Android SDK"
	probes := []probe{
		{name: "toolchain root", path: r.Root(), hint: sdkHint},
		{name: "platform android-" + r.Target(), path: filepath.Join(r.PlatformDir(), constants.PlatformJarName), hint: "install the SDK platform for the target version"},
		{name: "annotations", path: r.AnnotationsJar(), hint: "install the SDK support tools"},
	}
	for _, tool := range []string{constants.ToolDx, constants.ToolAapt, constants.ToolAdb, constants.ToolApkBuilder, constants.ToolZipalign} {
		probes = append(probes, probe{name: tool, path: r.Binary(tool), hint: sdkHint})
	}
	for _, tool := range []string{jdk.Javac, jdk.Java, jdk.Jarsigner, jdk.Keytool} {
		if tool == "" {
			continue
		}
		probes = append(probes, probe{name: filepath.Base(tool), path: tool, hint: "install a JDK and put it on PATH", lookup: true})
	}

	checks := make([]Check, len(probes))
	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range probes {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			checks[i] = runProbe(p, lookPath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("toolchain doctor: %w", err)
	}

	report := &Report{Checks: checks, Healthy: true}
	for _, c := range checks {
		if c.Status != CheckFound {
			report.Healthy = false
			break
		}
	}
	return report, nil
}

func runProbe(p probe, lookPath LookPathFunc) Check {
	c := Check{Name: p.name, Path: p.path, Status: CheckMissing, Hint: p.hint}
	if p.lookup && filepath.Base(p.path) == p.path {
		if resolved, err := lookPath(p.path); err == nil {
			c.Path = resolved
			c.Status = CheckFound
			c.Hint = ""
		}
		return c
	}
	if p.path != "" && exists(p.path) {
		c.Status = CheckFound
		c.Hint = ""
	}
	return c
}
