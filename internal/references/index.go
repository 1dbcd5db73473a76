package references

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilenameIndex is the set of PDF filenames in the source directory.
type FilenameIndex struct {
	Dir   string
	Names []string
}

// ListPDFs enumerates the PDF files directly inside dir. Subdirectories are
// not searched. Names are returned sorted.
func ListPDFs(dir string) (FilenameIndex, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return FilenameIndex{}, fmt.Errorf("failed to read source directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return FilenameIndex{Dir: dir, Names: names}, nil
}

// Path returns the full path of a filename in the index directory.
func (idx FilenameIndex) Path(name string) string {
	return filepath.Join(idx.Dir, name)
}
