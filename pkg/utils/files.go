package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// WithExt returns path with its extension replaced by ext, which must
// include the leading dot.
func WithExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// ExpandHome replaces a leading ~ with the user's home directory. Paths
// without the prefix come back unchanged, as does everything when no home
// directory can be determined.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
