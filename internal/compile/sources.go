package compile

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func isManagedSource(name string) bool {
	return strings.HasSuffix(name, ".clj") || strings.HasSuffix(name, ".cljc")
}

// javaSources lists every .java file under roots in walk order.
// Missing roots are skipped.
func javaSources(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".java") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
