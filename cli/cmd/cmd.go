package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/cadl/pkg"
	"github.com/ardnew/cadl/syntax"
)

// contextKey locates a [kong.Context] value in a [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// searchPathKey locates the model source search path in a context.
type searchPathKey struct{}

// WithSearchPath returns a new context.Context carrying the directories
// searched for model source files.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// repeated arguments.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// locate finds a model source file. The path is tried as given, then with
// the source extension appended, then through each search directory.
func locate(path string, dirs []string) (string, error) {
	try := []string{path}
	if filepath.Ext(path) == "" {
		try = append(try, path+pkg.Ext)
	}

	for _, name := range try {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}

		if filepath.IsAbs(name) {
			continue
		}

		for _, dir := range dirs {
			full := filepath.Join(dir, name)
			if _, err := os.Stat(full); err == nil {
				return full, nil
			}
		}
	}

	return "", ErrSourceNotFound.With(slog.String("path", path))
}

// loadSources locates and parses each named source. Arguments naming the
// same file are parsed once, resolved through symlinks and device/inode
// pairs. All occurrences of "-" read stdin, which is parsed last.
func loadSources(
	ctx context.Context,
	paths []string,
	dirs []string,
) ([]*syntax.SourceFile, error) {
	if len(paths) == 0 {
		return nil, ErrNoSource
	}

	var (
		files    []*syntax.SourceFile
		errs     []error
		useStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		if path == stdinSource {
			useStdin = true

			continue
		}

		resolved, key, err := resolveUnique(path, dirs)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		file, err := parseFile(ctx, resolved)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		files = append(files, file)
	}

	if useStdin {
		ra := readahead.NewReader(os.Stdin)
		defer ra.Close()

		file, err := syntax.ParseReader(ctx, "<stdin>", ra)
		if err != nil {
			errs = append(errs, err)
		} else {
			files = append(files, file)
		}
	}

	return files, errors.Join(errs...)
}

// resolveUnique locates path and returns its resolved name with the
// device/inode key used for deduplication.
func resolveUnique(path string, dirs []string) (string, fileKey, error) {
	found, err := locate(path, dirs)
	if err != nil {
		return "", fileKey{}, err
	}

	abs, err := filepath.Abs(found)
	if err != nil {
		return "", fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, err
	}

	// Fall back to the path itself when the platform hides inodes; the
	// path is canonical after EvalSymlinks.
	key, ok := makeFileKey(info)
	if !ok {
		key = fileKey{ino: xxh3.HashString(resolved)}
	}

	return resolved, key, nil
}

// parseFile opens and parses one source file through an async read-ahead
// buffer, so data is pre-fetched while earlier chunks are tokenized.
func parseFile(
	ctx context.Context,
	path string,
) (*syntax.SourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ra := readahead.NewReader(f)
	defer ra.Close()

	return syntax.ParseReader(ctx, path, ra)
}
