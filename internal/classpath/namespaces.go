package classpath

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/ctxutil"
	"github.com/android-clojure/droid/internal/errors"
)

// maxNamespaceHeader bounds how much of a source file is read to find its ns form.
const maxNamespaceHeader = 64 * 1024

// nsForm matches the namespace declaration, skipping reader metadata.
var nsForm = regexp.MustCompile(`\(\s*ns\s+(?:\^(?:\{[^}]*\}|:?\S+)\s+)*([^\s()\[\]{}"^;]+)`) //nolint:gochecknoglobals // compiled once

// sourceExts are the managed-language source suffixes scanned for namespaces.
var sourceExts = []string{".clj", ".cljc"} //nolint:gochecknoglobals // lookup table

// Namespaces enumerates the namespaces declared by source files under roots.
// Directory roots are walked; archive roots are read entry by entry. Missing
// roots and other files are skipped. The result is sorted and unique.
func Namespaces(ctx context.Context, roots []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	set := make(map[string]struct{})

	for _, root := range roots {
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, err
		}
		info, err := os.Stat(root)
		if err != nil {
			logger.Debug().Str("root", root).Msg("skipping missing classpath root")
			continue
		}

		var found []string
		switch {
		case info.IsDir():
			found, err = dirNamespaces(root)
		case IsArchive(root):
			found, err = archiveNamespaces(root)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, ns := range found {
			set[ns] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for ns := range set {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out, nil
}

func isSource(name string) bool {
	for _, ext := range sourceExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func dirNamespaces(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSource(d.Name()) {
			return nil
		}
		f, err := os.Open(p) //#nosec G304 -- walking project source roots
		if err != nil {
			return err
		}
		ns, err := readNamespace(f)
		_ = f.Close()
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", p)
		}
		if ns != "" {
			out = append(out, ns)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", root)
	}
	return out, nil
}

func archiveNamespaces(archive string) ([]string, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive %s", archive)
	}
	defer func() { _ = zr.Close() }()

	var out []string
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !isSource(entry.Name) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s!%s", archive, entry.Name)
		}
		ns, err := readNamespace(rc)
		_ = rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s!%s", archive, entry.Name)
		}
		if ns != "" {
			out = append(out, ns)
		}
	}
	return out, nil
}

// readNamespace returns the first namespace declared in r, ignoring line
// comments, or "" when there is none.
func readNamespace(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxNamespaceHeader))
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	m := nsForm.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil {
		return "", nil
	}
	return m[1], nil
}

// ExcludeNamespaces removes every namespace matching an exclusion. An
// exclusion is an exact name or a path.Match pattern ("app.dev.*").
func ExcludeNamespaces(namespaces, exclude []string) []string {
	out := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		if !excluded(ns, exclude) {
			out = append(out, ns)
		}
	}
	return out
}

func excluded(ns string, exclude []string) bool {
	for _, pattern := range exclude {
		if pattern == ns {
			return true
		}
		// Namespace names never contain '/', so '*' spans dotted segments.
		if ok, err := path.Match(pattern, ns); err == nil && ok {
			return true
		}
	}
	return false
}
