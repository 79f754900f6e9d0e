package compile

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/android-clojure/droid/internal/constants"
)

// stamp records the inputs of the last successful forced AOT compile.
type stamp struct {
	Namespaces   []string  `json:"namespaces"`
	Exclude      []string  `json:"exclude"`
	Release      bool      `json:"release"`
	NewestSource time.Time `json:"newest_source"`
}

func (s *stamp) equal(o *stamp) bool {
	return slices.Equal(s.Namespaces, o.Namespaces) &&
		slices.Equal(s.Exclude, o.Exclude) &&
		s.Release == o.Release &&
		s.NewestSource.Equal(o.NewestSource)
}

func stampPath(outDir string) string {
	return filepath.Join(outDir, constants.AOTStampFileName)
}

// readStamp returns nil when no usable stamp exists.
func readStamp(outDir string) *stamp {
	data, err := os.ReadFile(stampPath(outDir)) //#nosec G304 -- compiled classes dir from config
	if err != nil {
		return nil
	}
	var s stamp
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	return &s
}

func writeStamp(outDir string, s *stamp) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(stampPath(outDir), data, 0o600)
}

// newestModTime returns the latest modification time of managed sources
// under directory roots and of archive roots themselves. Missing roots are
// ignored.
func newestModTime(roots []string) (time.Time, error) {
	var newest time.Time
	note := func(t time.Time) {
		if t.After(newest) {
			newest = t
		}
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			note(info.ModTime())
			continue
		}
		err = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isManagedSource(d.Name()) {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			note(fi.ModTime())
			return nil
		})
		if err != nil {
			return time.Time{}, err
		}
	}
	return newest.UTC(), nil
}
