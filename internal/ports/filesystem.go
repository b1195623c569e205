package ports

import "time"

// FileSystemPort is the filesystem surface the executor needs for file
// tasks and file steps. Relative paths resolve against the project root.
type FileSystemPort interface {
	// ModTime returns the modification time of path and whether it exists.
	ModTime(path string) (time.Time, bool, error)
	Exists(path string) (bool, error)
	// MakeWritable adds write permission for everyone to every match of the
	// given paths or glob patterns.
	MakeWritable(patterns []string, recursive bool) (int, error)
	RemoveAll(path string) error
}
