package shellfs

import (
	"strings"
	"testing"

	"shellfs/internal/domain"
)

func newListedDir(t *testing.T, path, lsOutput string) (*fakeRunner, *File) {
	t.Helper()
	r := newFakeRunner()
	r.ok["[ -d "+path+" ]"] = true
	r.text["ls -a "+path] = lsOutput
	return r, New(r, path)
}

func TestListStripsPseudoEntries(t *testing.T) {
	_, f := newListedDir(t, "/data", ".\n..\na\nb")

	got := f.List(ctxT())
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List = %v, want [a b]", got)
	}
}

func TestListNonDirectory(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/data/file")

	if got := f.List(ctxT()); got != nil {
		t.Errorf("List on non-directory = %v, want nil", got)
	}
	for _, line := range r.lines {
		if strings.HasPrefix(line, "ls") {
			t.Error("listing command issued for non-directory")
		}
	}
}

func TestListEmptyDirectoryIsNotNil(t *testing.T) {
	_, f := newListedDir(t, "/data", ".\n..")

	got := f.List(ctxT())
	if got == nil {
		t.Fatal("List on empty directory = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("List = %v, want empty", got)
	}
}

func TestListNamesFilter(t *testing.T) {
	_, f := newListedDir(t, "/data", ".\n..\napp.log\ncore\nerror.log")

	got := f.ListNames(ctxT(), func(name string) bool {
		return strings.HasSuffix(name, ".log")
	})
	if len(got) != 2 || got[0] != "app.log" || got[1] != "error.log" {
		t.Errorf("ListNames = %v, want [app.log error.log]", got)
	}
}

func TestListQuotesPath(t *testing.T) {
	r := newFakeRunner()
	r.ok["[ -d '/my data' ]"] = true
	r.text["ls -a '/my data'"] = ".\n..\nx"

	f := New(r, "/my data")
	got := f.List(ctxT())
	if len(got) != 1 || got[0] != "x" {
		t.Errorf("List = %v, want [x]", got)
	}
}

func TestFilesConstructsChildren(t *testing.T) {
	_, f := newListedDir(t, "/data", ".\n..\na\nb")

	files := f.Files(ctxT(), nil)
	if len(files) != 2 {
		t.Fatalf("Files len = %d, want 2", len(files))
	}
	if files[0].Path() != "/data/a" || files[1].Path() != "/data/b" {
		t.Errorf("child paths = %q, %q", files[0].Path(), files[1].Path())
	}
}

func TestFilesEntityFilter(t *testing.T) {
	_, f := newListedDir(t, "/data", ".\n..\nkeep\ndrop")

	files := f.Files(ctxT(), func(child *File) bool {
		return child.Name() == "keep"
	})
	if len(files) != 1 || files[0].Path() != "/data/keep" {
		t.Errorf("Files = %v", files)
	}
}

func TestFilesNonDirectory(t *testing.T) {
	f := New(newFakeRunner(), "/data/file")
	if got := f.Files(ctxT(), nil); got != nil {
		t.Errorf("Files on non-directory = %v, want nil", got)
	}
}

func TestEntriesFilter(t *testing.T) {
	_, f := newListedDir(t, "/data", ".\n..\na\nbb")

	entries := f.Entries(ctxT(), func(e domain.Entry) bool {
		return len(e.Name()) == 1
	})
	if len(entries) != 1 || entries[0].Path() != "/data/a" {
		t.Errorf("Entries = %v", entries)
	}
}
