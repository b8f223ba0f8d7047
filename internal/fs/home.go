package fs

import (
	"os"
	"path/filepath"
)

// ExpandUser replaces a leading "~" or "~/" with the user's home directory.
// Other paths are returned unchanged.
func ExpandUser(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	if len(path) == 1 {
		if home, err := userHomeDir(); err == nil {
			return home
		}
		return path
	}

	sep := path[1]
	if sep != '/' && sep != '\\' {
		return path
	}

	home, err := userHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

var userHomeDir = os.UserHomeDir
