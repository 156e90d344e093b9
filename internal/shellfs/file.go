package shellfs

import (
	"context"
	"math"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"shellfs/internal/domain"
	"shellfs/internal/runner"
)

// pathToken is the placeholder in command templates that the escaped path
// replaces. Replacement happens immediately before execution; the escaped
// form is computed exactly once at construction.
const pathToken = "@@"

// File represents one filesystem path operated on via command execution.
// The path and its escaped form are set at construction and never mutated;
// children produced by listing or parent resolution are newly constructed,
// never aliased.
type File struct {
	r       runner.Runner
	path    string
	escaped string
}

var _ domain.Entry = (*File)(nil)

// New creates a File for pathname. The path is cleaned but otherwise taken
// as-is; relative paths are resolved by the interpreter's working directory.
func New(r runner.Runner, pathname string) *File {
	p := path.Clean(pathname)
	return &File{r: r, path: p, escaped: shellescape.Quote(p)}
}

// NewChild creates a File for the named child of parent.
func NewChild(parent *File, name string) *File {
	return New(parent.r, path.Join(parent.path, name))
}

// NewURI creates a File from a file:// locator.
func NewURI(r runner.Runner, locator string) (*File, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, domain.NewDomainError("NewURI", domain.ErrUnsupportedURI, err.Error())
	}
	if u.Scheme != "file" || u.Path == "" {
		return nil, domain.NewDomainError("NewURI", domain.ErrUnsupportedURI, locator)
	}
	return New(r, u.Path), nil
}

// Open returns a command-backed File when the runner has privileged
// access, and a native os-backed entry otherwise. The decision is made
// from the runner passed here, never from ambient process state.
func Open(ctx context.Context, r runner.Runner, pathname string) domain.Entry {
	if r.Privileged(ctx) {
		return New(r, pathname)
	}
	return newNativeEntry(pathname)
}

// Path returns the path this File was constructed with.
func (f *File) Path() string { return f.path }

// Name returns the last element of the path.
func (f *File) Name() string { return path.Base(f.path) }

// EscapedPath returns the shell-safe rendering of the path, suitable for
// splicing into a command line at an argument position.
func (f *File) EscapedPath() string { return f.escaped }

// Parent returns the parent entry, or nil for the root.
func (f *File) Parent() domain.Entry {
	p := f.ParentFile()
	if p == nil {
		return nil
	}
	return p
}

// ParentFile returns the parent as a *File, or nil for the root.
func (f *File) ParentFile() *File {
	dir := path.Dir(f.path)
	if dir == f.path {
		return nil
	}
	return New(f.r, dir)
}

// cmd executes template with the escaped path substituted and returns the
// captured text. Transport failures collapse to an empty string; callers
// apply their documented parse fallbacks.
func (f *File) cmd(ctx context.Context, template string) string {
	out, err := f.r.Output(ctx, strings.ReplaceAll(template, pathToken, f.escaped))
	if err != nil {
		return ""
	}
	return out
}

// cmdBool executes template and reports whether the interpreter reported
// success. Failure is a routine result here, not an error.
func (f *File) cmdBool(ctx context.Context, template string) bool {
	return f.r.Run(ctx, strings.ReplaceAll(template, pathToken, f.escaped)) == nil
}

func (f *File) CanExecute(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -x @@ ]")
}

func (f *File) CanRead(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -r @@ ]")
}

func (f *File) CanWrite(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -w @@ ]")
}

func (f *File) Exists(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -e @@ ]")
}

func (f *File) IsDirectory(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -d @@ ]")
}

func (f *File) IsFile(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -f @@ ]")
}

// IsBlock reports whether the path denotes a block device.
func (f *File) IsBlock(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -b @@ ]")
}

// IsCharacter reports whether the path denotes a character device.
func (f *File) IsCharacter(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -c @@ ]")
}

// IsSymlink reports whether the path denotes a symbolic link.
func (f *File) IsSymlink(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ -L @@ ]")
}

// CreateNewFile creates an empty file, failing when the path already
// exists. The existence test and the creation are two steps of one command
// line, so the operation is not atomic.
func (f *File) CreateNewFile(ctx context.Context) bool {
	return f.cmdBool(ctx, "[ ! -e @@ ] && echo -n > @@")
}

// Delete removes the file, or the directory when it is empty. The fallback
// chain masks the distinction between "non-empty directory" and any other
// removal failure; callers get a plain false either way.
func (f *File) Delete(ctx context.Context) bool {
	return f.cmdBool(ctx, "rm -f @@ || rmdir -f @@")
}

// DeleteRecursive removes the path and everything below it.
func (f *File) DeleteRecursive(ctx context.Context) bool {
	return f.cmdBool(ctx, "rm -rf @@")
}

// Clear truncates the file to zero length, creating it if absent.
func (f *File) Clear(ctx context.Context) bool {
	return f.cmdBool(ctx, "echo -n > @@")
}

// CanonicalPath resolves symlinks via readlink. Paths that cannot be
// resolved (already canonical, nonexistent, or readlink unsupported)
// yield the original path unchanged.
func (f *File) CanonicalPath(ctx context.Context) string {
	out := f.cmd(ctx, "readlink -f @@")
	if out == "" {
		return f.path
	}
	return out
}

// CanonicalFile returns a newly constructed File for the canonical path.
func (f *File) CanonicalFile(ctx context.Context) *File {
	return New(f.r, f.CanonicalPath(ctx))
}

// statFS queries the partition holding the path. The output is expected to
// be "<block size> <block count>"; anything else yields math.MaxInt64, a
// sentinel meaning "unknown" that cannot be misread as full or empty.
func (f *File) statFS(ctx context.Context, fmtSpec string) int64 {
	res := strings.Split(f.cmd(ctx, "stat -fc '%S "+fmtSpec+"' @@"), " ")
	if len(res) != 2 {
		return math.MaxInt64
	}
	size, err := strconv.ParseInt(res[0], 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	count, err := strconv.ParseInt(res[1], 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return size * count
}

// FreeSpace returns the number of unallocated bytes in the partition.
func (f *File) FreeSpace(ctx context.Context) int64 {
	return f.statFS(ctx, "%f")
}

// TotalSpace returns the size of the partition.
func (f *File) TotalSpace(ctx context.Context) int64 {
	return f.statFS(ctx, "%b")
}

// UsableSpace returns the number of bytes available on the partition.
func (f *File) UsableSpace(ctx context.Context) int64 {
	return f.statFS(ctx, "%a")
}

// LastModified returns the modification time in epoch milliseconds, or 0
// when the stat output cannot be parsed.
func (f *File) LastModified(ctx context.Context) int64 {
	sec, err := strconv.ParseInt(f.cmd(ctx, "stat -c '%Y' @@"), 10, 64)
	if err != nil {
		return 0
	}
	return sec * 1000
}

// Length returns the size in bytes, or 0 when the stat output cannot be
// parsed.
func (f *File) Length(ctx context.Context) int64 {
	n, err := strconv.ParseInt(f.cmd(ctx, "stat -c '%s' @@"), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (f *File) Mkdir(ctx context.Context) bool {
	return f.cmdBool(ctx, "mkdir @@")
}

// Mkdirs creates the directory including any missing parents.
func (f *File) Mkdirs(ctx context.Context) bool {
	return f.cmdBool(ctx, "mkdir -p @@")
}

// RenameTo moves the file to dest with a single two-path mv command. The
// destination path is escaped independently; there is no staging and no
// verification beyond the exit status.
func (f *File) RenameTo(ctx context.Context, dest string) bool {
	return f.r.Run(ctx, "mv -f "+f.escaped+" "+shellescape.Quote(path.Clean(dest))) == nil
}

// setPerm reads the current mode, toggles bit per the request, and writes
// the result back with chmod. A malformed mode string fails the operation
// without issuing chmod.
func (f *File) setPerm(ctx context.Context, set, ownerOnly bool, bit int) bool {
	digits, ok := togglePerm(f.cmd(ctx, "stat -c '%a' @@"), set, ownerOnly, bit)
	if !ok {
		return false
	}
	return f.cmdBool(ctx, "chmod "+digits+" @@")
}

// SetExecutable sets or clears the execute permission, for the owner only
// or for everybody.
func (f *File) SetExecutable(ctx context.Context, set, ownerOnly bool) bool {
	return f.setPerm(ctx, set, ownerOnly, permExecute)
}

// SetReadable sets or clears the read permission, for the owner only or
// for everybody.
func (f *File) SetReadable(ctx context.Context, set, ownerOnly bool) bool {
	return f.setPerm(ctx, set, ownerOnly, permRead)
}

// SetWritable sets or clears the write permission, for the owner only or
// for everybody.
func (f *File) SetWritable(ctx context.Context, set, ownerOnly bool) bool {
	return f.setPerm(ctx, set, ownerOnly, permWrite)
}

// SetReadOnly clears everybody's write permission, then everybody's
// execute permission. Both must succeed.
func (f *File) SetReadOnly(ctx context.Context) bool {
	return f.SetWritable(ctx, false, false) && f.SetExecutable(ctx, false, false)
}

// touchStamp is the GNU coreutils touch -t timestamp layout (yyyyMMddHHmm).
// Minute precision; sub-minute precision is lost.
const touchStamp = "200601021504"

// SetLastModified sets the modification time from epoch milliseconds. The
// touch is guarded by an existence test so it never creates a new file as
// a side effect.
func (f *File) SetLastModified(ctx context.Context, millis int64) bool {
	date := time.UnixMilli(millis).Format(touchStamp)
	return f.cmdBool(ctx, "[ -e @@ ] && touch -t "+date+" @@")
}
