package blob

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem implements Store on a local directory. Keys map to relative
// file paths under the root. Removing a blob prunes directories that become
// empty, up to but never including the root.
type Filesystem struct {
	root string
}

// NewFilesystem returns a filesystem blob store rooted at path, creating it if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "./media"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Filesystem{root: abs}, nil
}

// Root returns the absolute media root directory.
func (f *Filesystem) Root() string { return f.root }

// sanitizeKey forbids path traversal and absolute paths.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key traversal")
	}
	return clean, nil
}

func (f *Filesystem) pathFor(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.root, filepath.FromSlash(k)), nil
}

func (f *Filesystem) Put(ctx context.Context, key string, r io.Reader) error {
	dataPath, err := f.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return err
	}
	// stream to a temp file, then move into place atomically
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dataPath)
}

func (f *Filesystem) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	dataPath, err := f.pathFor(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(dataPath)
	if os.IsNotExist(err) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (f *Filesystem) Remove(ctx context.Context, key string) error {
	dataPath, err := f.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dataPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	f.pruneEmptyDirs(filepath.Dir(dataPath))
	return nil
}

func (f *Filesystem) Exists(ctx context.Context, key string) (bool, error) {
	dataPath, err := f.pathFor(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(dataPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// pruneEmptyDirs removes now-empty directories walking upward, stopping at
// the store root. The root itself is never removed.
func (f *Filesystem) pruneEmptyDirs(dir string) {
	for dir != f.root && strings.HasPrefix(dir, f.root) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

var _ Store = (*Filesystem)(nil)
var _ fs.FS = (*rootFS)(nil)

// rootFS adapts the store root for http.FileServer-style consumers.
type rootFS struct{ root string }

func (r *rootFS) Open(name string) (fs.File, error) {
	return os.DirFS(r.root).Open(name)
}

// FS exposes the media tree read-only for static file serving.
func (f *Filesystem) FS() fs.FS { return &rootFS{root: f.root} }
