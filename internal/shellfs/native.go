package shellfs

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"shellfs/internal/domain"
)

// nativeEntry implements domain.Entry with ordinary host I/O. The entry
// factory falls back to it when the runner has no privileged access, so
// callers get one capability surface regardless of how a path is reached.
type nativeEntry struct {
	path string
}

var _ domain.Entry = (*nativeEntry)(nil)

func newNativeEntry(pathname string) *nativeEntry {
	return &nativeEntry{path: filepath.Clean(pathname)}
}

func (e *nativeEntry) Path() string { return e.path }
func (e *nativeEntry) Name() string { return filepath.Base(e.path) }

func (e *nativeEntry) Parent() domain.Entry {
	dir := filepath.Dir(e.path)
	if dir == e.path {
		return nil
	}
	return newNativeEntry(dir)
}

func (e *nativeEntry) access(mode uint32) bool {
	return unix.Access(e.path, mode) == nil
}

func (e *nativeEntry) CanExecute(context.Context) bool { return e.access(unix.X_OK) }
func (e *nativeEntry) CanRead(context.Context) bool    { return e.access(unix.R_OK) }
func (e *nativeEntry) CanWrite(context.Context) bool   { return e.access(unix.W_OK) }

func (e *nativeEntry) Exists(context.Context) bool {
	_, err := os.Stat(e.path)
	return err == nil
}

func (e *nativeEntry) IsDirectory(context.Context) bool {
	info, err := os.Stat(e.path)
	return err == nil && info.IsDir()
}

func (e *nativeEntry) IsFile(context.Context) bool {
	info, err := os.Stat(e.path)
	return err == nil && info.Mode().IsRegular()
}

func (e *nativeEntry) IsBlock(context.Context) bool {
	info, err := os.Lstat(e.path)
	return err == nil && info.Mode()&os.ModeDevice != 0 && info.Mode()&os.ModeCharDevice == 0
}

func (e *nativeEntry) IsCharacter(context.Context) bool {
	info, err := os.Lstat(e.path)
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func (e *nativeEntry) IsSymlink(context.Context) bool {
	info, err := os.Lstat(e.path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

func (e *nativeEntry) CanonicalPath(context.Context) string {
	resolved, err := filepath.EvalSymlinks(e.path)
	if err != nil {
		return e.path
	}
	return resolved
}

func (e *nativeEntry) LastModified(context.Context) int64 {
	info, err := os.Stat(e.path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixMilli()
}

func (e *nativeEntry) Length(context.Context) int64 {
	info, err := os.Stat(e.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (e *nativeEntry) statfs(pick func(st *unix.Statfs_t) int64) int64 {
	var st unix.Statfs_t
	if err := unix.Statfs(e.path, &st); err != nil {
		return math.MaxInt64
	}
	return pick(&st)
}

func (e *nativeEntry) FreeSpace(context.Context) int64 {
	return e.statfs(func(st *unix.Statfs_t) int64 { return int64(st.Bsize) * int64(st.Bfree) })
}

func (e *nativeEntry) TotalSpace(context.Context) int64 {
	return e.statfs(func(st *unix.Statfs_t) int64 { return int64(st.Bsize) * int64(st.Blocks) })
}

func (e *nativeEntry) UsableSpace(context.Context) int64 {
	return e.statfs(func(st *unix.Statfs_t) int64 { return int64(st.Bsize) * int64(st.Bavail) })
}

func (e *nativeEntry) CreateNewFile(context.Context) bool {
	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return false
	}
	return f.Close() == nil
}

func (e *nativeEntry) Delete(context.Context) bool {
	return os.Remove(e.path) == nil
}

func (e *nativeEntry) DeleteRecursive(context.Context) bool {
	return os.RemoveAll(e.path) == nil
}

func (e *nativeEntry) Clear(context.Context) bool {
	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return false
	}
	return f.Close() == nil
}

func (e *nativeEntry) Mkdir(context.Context) bool {
	return os.Mkdir(e.path, 0755) == nil
}

func (e *nativeEntry) Mkdirs(context.Context) bool {
	return os.MkdirAll(e.path, 0755) == nil
}

func (e *nativeEntry) RenameTo(_ context.Context, dest string) bool {
	return os.Rename(e.path, filepath.Clean(dest)) == nil
}

// setPerm routes native permission changes through the same octal digit
// codec the command-backed entry uses, so both surfaces agree on scope
// semantics.
func (e *nativeEntry) setPerm(set, ownerOnly bool, bit int) bool {
	info, err := os.Stat(e.path)
	if err != nil {
		return false
	}
	mode := fmt.Sprintf("%03o", info.Mode().Perm())
	digits, ok := togglePerm(mode, set, ownerOnly, bit)
	if !ok {
		return false
	}
	var perm os.FileMode
	for i := 0; i < 3; i++ {
		perm = perm<<3 | os.FileMode(digits[i]-'0')
	}
	return os.Chmod(e.path, perm) == nil
}

func (e *nativeEntry) SetExecutable(_ context.Context, set, ownerOnly bool) bool {
	return e.setPerm(set, ownerOnly, permExecute)
}

func (e *nativeEntry) SetReadable(_ context.Context, set, ownerOnly bool) bool {
	return e.setPerm(set, ownerOnly, permRead)
}

func (e *nativeEntry) SetWritable(_ context.Context, set, ownerOnly bool) bool {
	return e.setPerm(set, ownerOnly, permWrite)
}

func (e *nativeEntry) SetReadOnly(ctx context.Context) bool {
	return e.SetWritable(ctx, false, false) && e.SetExecutable(ctx, false, false)
}

func (e *nativeEntry) SetLastModified(_ context.Context, millis int64) bool {
	if _, err := os.Stat(e.path); err != nil {
		return false
	}
	t := time.UnixMilli(millis)
	return os.Chtimes(e.path, t, t) == nil
}

func (e *nativeEntry) List(ctx context.Context) []string {
	return e.ListNames(ctx, nil)
}

func (e *nativeEntry) ListNames(_ context.Context, filter func(name string) bool) []string {
	dirents, err := os.ReadDir(e.path)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(dirents))
	for _, d := range dirents {
		if filter != nil && !filter(d.Name()) {
			continue
		}
		names = append(names, d.Name())
	}
	return names
}

func (e *nativeEntry) Entries(ctx context.Context, filter func(domain.Entry) bool) []domain.Entry {
	names := e.List(ctx)
	if names == nil {
		return nil
	}
	entries := make([]domain.Entry, 0, len(names))
	for _, name := range names {
		child := newNativeEntry(filepath.Join(e.path, name))
		if filter == nil || filter(child) {
			entries = append(entries, child)
		}
	}
	return entries
}
