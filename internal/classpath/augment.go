// Package classpath resolves project dependencies into local paths and
// augments the result with the platform archives every Android build needs.
//
// Resolution is a decorator chain built once per pipeline: a base Resolver
// turns the declared dependency set into paths, and Augmented wraps it so
// every caller sees the deduplicated, platform-extended list.
package classpath

import (
	"context"
	"path/filepath"
	"strings"
)

// archiveExt is the suffix that marks a classpath entry as an archive.
const archiveExt = ".jar"

// Resolver turns a declared dependency set into local classpath entries.
type Resolver interface {
	Resolve(ctx context.Context, deps []string) ([]string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, deps []string) ([]string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, deps []string) ([]string, error) {
	return f(ctx, deps)
}

// PlatformFunc supplies the platform archives appended by Augmented.
type PlatformFunc func() ([]string, error)

// IsArchive reports whether p names an archive entry.
func IsArchive(p string) bool {
	return strings.EqualFold(filepath.Ext(p), archiveExt)
}

// Augment partitions paths into archives and non-archives, keeps the first
// archive seen for each base file name, and returns the archives followed by
// the non-archives (relative order preserved) followed by the platform
// archives. A platform archive whose base name is already present is skipped.
// paths is not modified.
func Augment(paths []string, platform ...string) []string {
	seen := make(map[string]bool, len(paths)+len(platform))
	archives := make([]string, 0, len(paths))
	var dirs []string

	for _, p := range paths {
		if !IsArchive(p) {
			dirs = append(dirs, p)
			continue
		}
		name := filepath.Base(p)
		if seen[name] {
			continue
		}
		seen[name] = true
		archives = append(archives, p)
	}

	out := append(archives, dirs...) //nolint:gocritic // archives is owned here
	for _, p := range platform {
		name := filepath.Base(p)
		if IsArchive(p) && seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, p)
	}
	return out
}

// DedupeArchives drops later archives whose base name was already seen and
// keeps everything else in order. Unlike Augment it does not reorder.
func DedupeArchives(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if IsArchive(p) {
			name := filepath.Base(p)
			if seen[name] {
				continue
			}
			seen[name] = true
		}
		out = append(out, p)
	}
	return out
}

type augmented struct {
	base     Resolver
	platform PlatformFunc
}

// Augmented wraps base so its output passes through Augment with the
// archives returned by platform. The wrapper has the same contract as base.
func Augmented(base Resolver, platform PlatformFunc) Resolver {
	return &augmented{base: base, platform: platform}
}

func (a *augmented) Resolve(ctx context.Context, deps []string) ([]string, error) {
	paths, err := a.base.Resolve(ctx, deps)
	if err != nil {
		return nil, err
	}
	var extra []string
	if a.platform != nil {
		if extra, err = a.platform(); err != nil {
			return nil, err
		}
	}
	return Augment(paths, extra...), nil
}

// Join renders entries as an OS path list for -cp arguments.
func Join(entries []string) string {
	return strings.Join(entries, string(filepath.ListSeparator))
}
