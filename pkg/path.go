package pkg

import (
	"os"
	"path/filepath"
	"sync"
)

// ConfigDir returns the per-user configuration directory. The CLI
// creates it on demand.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the per-user directory for transient files such as
// profiler output.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir resolves a per-user base directory, falling back to a hidden
// directory under the home directory and finally to the working
// directory, then appends the project name.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err != nil {
		switch home, herr := os.UserHomeDir(); {
		case herr == nil:
			dir = filepath.Join(home, hidden)
		default:
			if dir, err = os.Getwd(); err != nil {
				dir = "."
			}
		}
	}

	return filepath.Join(dir, Name)
}
