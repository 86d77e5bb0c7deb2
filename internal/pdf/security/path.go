// Package security confines file access of the tools to one working
// directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for paths that escape the configured directory
var ErrOutsideRoot = errors.New("path is outside configured directory")

// PathValidator resolves tool paths against a configured directory and
// rejects any that escape it
type PathValidator struct {
	root string
}

// NewPathValidator creates a new path validator for the given directory
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	// The directory may not exist yet; confinement starts once it does.
	return &PathValidator{root: root}, nil
}

// Root returns the configured directory
func (v *PathValidator) Root() string {
	return v.root
}

func (v *PathValidator) rootExists() bool {
	_, err := os.Stat(v.root)
	return err == nil
}

// Resolve returns the absolute form of path. Relative paths are taken from
// the configured directory. Paths that do not exist yet, such as output
// files, are checked through their nearest existing parent.
func (v *PathValidator) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains a NUL byte")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	ok, err := v.Contains(absPath)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	return absPath, nil
}

// Contains reports whether path lies inside the configured directory, both
// lexically and after following symlinks
func (v *PathValidator) Contains(path string) (bool, error) {
	if !v.rootExists() {
		return true, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absRoot, err := filepath.Abs(v.root)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	realRoot := absRoot
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		realRoot = resolved
	}
	realPath, err := evalExisting(absPath)
	if err != nil {
		return false, err
	}

	lexical := within(absPath, absRoot) || within(absPath, realRoot)
	physical := within(realPath, absRoot) || within(realPath, realRoot)
	return lexical && physical, nil
}

// ValidateDirectory checks that dir is inside the configured directory and,
// when it exists, is a directory
func (v *PathValidator) ValidateDirectory(dir string) (string, error) {
	abs, err := v.Resolve(dir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		return abs, nil
	case err != nil:
		return "", fmt.Errorf("cannot access directory: %w", err)
	case !info.IsDir():
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}
	return abs, nil
}

const maxLinkHops = 40

// evalExisting follows symlinks in the longest existing prefix of path and
// appends the rest unchanged. Dangling links are followed to their target.
func evalExisting(path string) (string, error) {
	clean := filepath.Clean(path)
	rest := ""
	for hops := 0; ; {
		resolved, err := filepath.EvalSymlinks(clean)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to evaluate symlinks: %w", err)
		}
		if info, lerr := os.Lstat(clean); lerr == nil && info.Mode()&os.ModeSymlink != 0 {
			if hops++; hops > maxLinkHops {
				return "", fmt.Errorf("too many levels of symbolic links: %s", path)
			}
			target, err := os.Readlink(clean)
			if err != nil {
				return "", fmt.Errorf("failed to read link: %w", err)
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(clean), target)
			}
			clean = filepath.Clean(target)
			continue
		}
		parent := filepath.Dir(clean)
		if parent == clean {
			return path, nil
		}
		rest = filepath.Join(filepath.Base(clean), rest)
		clean = parent
	}
}

func within(path, dir string) bool {
	path = filepath.Clean(path)
	dir = filepath.Clean(dir)
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
