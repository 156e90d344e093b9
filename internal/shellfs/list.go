package shellfs

import (
	"context"
	"strings"

	"shellfs/internal/domain"
)

// List returns the names in the directory, excluding the "." and ".."
// pseudo-entries. A nil result means the path is not a directory and is
// distinct from an empty directory, which yields an empty non-nil slice.
func (f *File) List(ctx context.Context) []string {
	return f.ListNames(ctx, nil)
}

// ListNames is List with an optional name predicate. Entries are returned
// in the order the listing command produced them.
func (f *File) ListNames(ctx context.Context, filter func(name string) bool) []string {
	if !f.IsDirectory(ctx) {
		return nil
	}
	out, err := f.r.Output(ctx, "ls -a "+f.escaped)
	if err != nil {
		return nil
	}
	names := make([]string, 0)
	for _, name := range strings.Split(out, "\n") {
		if name == "" || name == "." || name == ".." {
			continue
		}
		if filter != nil && !filter(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Files lists the directory as newly constructed child Files, optionally
// filtered on the constructed child. Returns nil when not a directory.
func (f *File) Files(ctx context.Context, filter func(*File) bool) []*File {
	names := f.List(ctx)
	if names == nil {
		return nil
	}
	files := make([]*File, 0, len(names))
	for _, name := range names {
		child := NewChild(f, name)
		if filter == nil || filter(child) {
			files = append(files, child)
		}
	}
	return files
}

// Entries implements the domain.Entry listing entry point.
func (f *File) Entries(ctx context.Context, filter func(domain.Entry) bool) []domain.Entry {
	names := f.List(ctx)
	if names == nil {
		return nil
	}
	entries := make([]domain.Entry, 0, len(names))
	for _, name := range names {
		child := NewChild(f, name)
		if filter == nil || filter(child) {
			entries = append(entries, child)
		}
	}
	return entries
}
