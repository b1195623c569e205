package adapters

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"

	"xctasks/internal/ports"
)

// FileSystemAdapter resolves relative paths against the project root.
type FileSystemAdapter struct {
	Root string
}

func NewFileSystemAdapter(root string) FileSystemAdapter {
	return FileSystemAdapter{Root: root}
}

func (a FileSystemAdapter) ModTime(path string) (time.Time, bool, error) {
	info, err := os.Stat(a.resolve(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to stat %s", path)).
			WithCause(err)
	}
	return info.ModTime(), true, nil
}

func (a FileSystemAdapter) Exists(path string) (bool, error) {
	_, ok, err := a.ModTime(path)
	return ok, err
}

// MakeWritable adds a+w to every match. Literal paths must exist; glob
// patterns may match nothing.
func (a FileSystemAdapter) MakeWritable(patterns []string, recursive bool) (int, error) {
	count := 0
	for _, pattern := range patterns {
		matches, err := a.expand(pattern)
		if err != nil {
			return count, err
		}
		for _, match := range matches {
			n, err := makeWritable(match, recursive)
			count += n
			if err != nil {
				return count, err
			}
		}
	}
	return count, nil
}

func (a FileSystemAdapter) RemoveAll(path string) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("refusing to remove an empty path")
	}
	resolved := a.resolve(path)
	if resolved == "/" || (a.Root != "" && filepath.Clean(resolved) == filepath.Clean(a.Root)) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("refusing to remove %s", resolved))
	}
	if err := os.RemoveAll(resolved); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to remove %s", path)).
			WithCause(err)
	}
	return nil
}

func (a FileSystemAdapter) expand(pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if !hasGlobMeta(pattern) {
		resolved := a.resolve(pattern)
		if _, err := os.Lstat(resolved); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("path not found: %s", pattern)).
				WithCause(err)
		}
		return []string{resolved}, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid glob pattern: %s", pattern))
	}
	base := a.Root
	if filepath.IsAbs(pattern) {
		base, pattern = doublestar.SplitPattern(pattern)
	}
	if base == "" {
		base = "."
	}
	matches, err := doublestar.Glob(os.DirFS(base), filepath.ToSlash(pattern))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to expand %s", pattern)).
			WithCause(err)
	}
	resolved := make([]string, 0, len(matches))
	for _, match := range matches {
		resolved = append(resolved, filepath.Join(base, filepath.FromSlash(match)))
	}
	return resolved, nil
}

func (a FileSystemAdapter) resolve(path string) string {
	if filepath.IsAbs(path) || a.Root == "" {
		return path
	}
	return filepath.Join(a.Root, path)
}

func makeWritable(path string, recursive bool) (int, error) {
	if !recursive {
		return 1, addWrite(path)
	}
	count := 0
	err := filepath.WalkDir(path, func(current string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		count++
		return addWrite(current)
	})
	if err != nil {
		return count, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to make %s writable", path)).
			WithCause(err)
	}
	return count, nil
}

func addWrite(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("path not found: %s", path)).
			WithCause(err)
	}
	mode := info.Mode().Perm() | 0o222
	if err := os.Chmod(path, mode); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to chmod %s", path)).
			WithCause(err)
	}
	return nil
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

var _ ports.FileSystemPort = FileSystemAdapter{}
