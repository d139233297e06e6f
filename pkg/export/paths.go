package export

import (
	"os"
	"path/filepath"
	"strings"
)

// PropertiesSuffix is inserted between the base name and the extension of
// the primary path to form the properties sidecar path.
const PropertiesSuffix = "_properties"

// PropertiesPath derives the sidecar path from the primary path. The
// extension starts at the first dot of the file name, ignoring a leading
// dot: "out/a.tar.csv" becomes "out/a_properties.tar.csv".
func PropertiesPath(path string) string {
	dir, file := filepath.Split(path)
	start := 0
	if strings.HasPrefix(file, ".") {
		start = 1
	}
	if i := strings.IndexByte(file[start:], '.'); i >= 0 {
		i += start
		return dir + file[:i] + PropertiesSuffix + file[i:]
	}
	return dir + file + PropertiesSuffix
}

// createTarget opens path for writing, truncating any previous content.
func createTarget(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}
