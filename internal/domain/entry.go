package domain

import "context"

// Entry is the capability-limited surface of a filesystem path that is
// operated on through command execution. It deliberately exposes only the
// operations that are meaningful for command-backed access; anything a
// native file handle could do beyond this catalog (deferred deletes, byte
// streams, locks) has no member here.
//
// None of the operations are atomic with respect to the underlying
// filesystem: between any two calls the filesystem state may change out
// from under the caller. This is an inherent limitation of command-based
// access, not an oversight.
type Entry interface {
	// Path returns the normalized absolute path this entry was constructed with.
	Path() string
	// Name returns the last element of the path.
	Name() string
	// Parent returns the parent entry, or nil when the path has no parent.
	Parent() Entry

	CanExecute(ctx context.Context) bool
	CanRead(ctx context.Context) bool
	CanWrite(ctx context.Context) bool
	Exists(ctx context.Context) bool
	IsDirectory(ctx context.Context) bool
	IsFile(ctx context.Context) bool
	IsBlock(ctx context.Context) bool
	IsCharacter(ctx context.Context) bool
	IsSymlink(ctx context.Context) bool

	// CanonicalPath resolves symlinks. Paths that cannot be resolved yield
	// the original path unchanged.
	CanonicalPath(ctx context.Context) string
	// LastModified returns the modification time in epoch milliseconds, 0 when unknown.
	LastModified(ctx context.Context) int64
	// Length returns the size in bytes, 0 when unknown.
	Length(ctx context.Context) int64
	// FreeSpace, TotalSpace and UsableSpace report partition sizes in bytes.
	// When the size cannot be determined they return math.MaxInt64, a
	// sentinel meaning "unknown/unbounded" rather than zero.
	FreeSpace(ctx context.Context) int64
	TotalSpace(ctx context.Context) int64
	UsableSpace(ctx context.Context) int64

	// CreateNewFile atomically-as-possible creates an empty file; false when
	// the path already exists or creation failed.
	CreateNewFile(ctx context.Context) bool
	// Delete removes a file or an empty directory.
	Delete(ctx context.Context) bool
	// DeleteRecursive removes the path and everything below it.
	DeleteRecursive(ctx context.Context) bool
	// Clear truncates the file to zero length, creating it if absent.
	Clear(ctx context.Context) bool
	Mkdir(ctx context.Context) bool
	Mkdirs(ctx context.Context) bool
	// RenameTo moves the entry to dest.
	RenameTo(ctx context.Context, dest string) bool

	SetExecutable(ctx context.Context, set, ownerOnly bool) bool
	SetReadable(ctx context.Context, set, ownerOnly bool) bool
	SetWritable(ctx context.Context, set, ownerOnly bool) bool
	SetReadOnly(ctx context.Context) bool
	// SetLastModified sets the modification time from epoch milliseconds.
	// Sub-minute precision is lost. Never creates the file as a side effect.
	SetLastModified(ctx context.Context, millis int64) bool

	// List returns the names in a directory, excluding "." and "..".
	// A nil slice means "not a directory" and is distinct from an empty
	// directory, which yields an empty non-nil slice.
	List(ctx context.Context) []string
	// ListNames is List with a name predicate applied to each entry.
	ListNames(ctx context.Context, filter func(name string) bool) []string
	// Entries lists the directory as child entries, optionally filtered.
	// A nil filter keeps everything. Returns nil when not a directory.
	Entries(ctx context.Context, filter func(Entry) bool) []Entry
}
