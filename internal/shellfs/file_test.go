package shellfs

import (
	"context"
	"math"
	"testing"
	"time"

	"shellfs/internal/domain"
)

// fakeRunner scripts command lines to canned results and records every
// line it was handed.
type fakeRunner struct {
	text  map[string]string // line -> stdout
	ok    map[string]bool   // line -> exit success
	lines []string
	priv  bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{text: map[string]string{}, ok: map[string]bool{}}
}

func (r *fakeRunner) Output(_ context.Context, line string) (string, error) {
	r.lines = append(r.lines, line)
	return r.text[line], nil
}

func (r *fakeRunner) Run(_ context.Context, line string) error {
	r.lines = append(r.lines, line)
	if r.ok[line] {
		return nil
	}
	return domain.NewDomainError("fakeRunner.Run", domain.ErrCommandFailed, line)
}

func (r *fakeRunner) Privileged(context.Context) bool { return r.priv }

func (r *fakeRunner) lastLine() string {
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

func ctxT() context.Context { return context.Background() }

// --- Construction and escaping ---

func TestEscapedPathPlain(t *testing.T) {
	f := New(newFakeRunner(), "/data/tmp")
	if f.EscapedPath() != "/data/tmp" {
		t.Errorf("EscapedPath = %q, want %q", f.EscapedPath(), "/data/tmp")
	}
}

func TestEscapedPathSpaces(t *testing.T) {
	f := New(newFakeRunner(), "/data/my file")
	if f.EscapedPath() != "'/data/my file'" {
		t.Errorf("EscapedPath = %q, want %q", f.EscapedPath(), "'/data/my file'")
	}
}

func TestEscapedPathAdversarial(t *testing.T) {
	cases := map[string]string{
		"/a/it's":        `'/a/it'"'"'s'`,
		"/a/$HOME":       `'/a/$HOME'`,
		"/a/x;rm -rf /b": `'/a/x;rm -rf /b'`,
		"/a/`uname`":     "'/a/`uname`'",
	}
	for raw, want := range cases {
		f := New(newFakeRunner(), raw)
		if f.EscapedPath() != want {
			t.Errorf("EscapedPath(%q) = %q, want %q", raw, f.EscapedPath(), want)
		}
	}
}

func TestEscapedPathComputedOnce(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/data/my file")
	first := f.EscapedPath()
	f.Exists(ctxT())
	f.Length(ctxT())
	if f.EscapedPath() != first {
		t.Error("escaped path changed after use")
	}
}

func TestNewChild(t *testing.T) {
	r := newFakeRunner()
	parent := New(r, "/data")
	child := NewChild(parent, "sub dir")
	if child.Path() != "/data/sub dir" {
		t.Errorf("Path = %q, want %q", child.Path(), "/data/sub dir")
	}
	if child == parent {
		t.Error("child aliases parent")
	}
}

func TestNewURI(t *testing.T) {
	f, err := NewURI(newFakeRunner(), "file:///data/x")
	if err != nil {
		t.Fatal(err)
	}
	if f.Path() != "/data/x" {
		t.Errorf("Path = %q, want %q", f.Path(), "/data/x")
	}
}

func TestNewURIUnsupported(t *testing.T) {
	for _, locator := range []string{"http://host/x", "file://", "::bad::"} {
		if _, err := NewURI(newFakeRunner(), locator); err == nil {
			t.Errorf("NewURI(%q): expected error", locator)
		}
	}
}

func TestParent(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/a/b")
	p := f.ParentFile()
	if p == nil || p.Path() != "/a" {
		t.Fatalf("ParentFile = %v", p)
	}
	if root := New(r, "/").ParentFile(); root != nil {
		t.Errorf("root parent = %v, want nil", root)
	}
}

// --- Predicate templates ---

func TestPredicateTemplates(t *testing.T) {
	cases := []struct {
		name string
		call func(f *File) bool
		want string
	}{
		{"exists", func(f *File) bool { return f.Exists(ctxT()) }, "[ -e '/data/my file' ]"},
		{"isDirectory", func(f *File) bool { return f.IsDirectory(ctxT()) }, "[ -d '/data/my file' ]"},
		{"isFile", func(f *File) bool { return f.IsFile(ctxT()) }, "[ -f '/data/my file' ]"},
		{"isBlock", func(f *File) bool { return f.IsBlock(ctxT()) }, "[ -b '/data/my file' ]"},
		{"isCharacter", func(f *File) bool { return f.IsCharacter(ctxT()) }, "[ -c '/data/my file' ]"},
		{"isSymlink", func(f *File) bool { return f.IsSymlink(ctxT()) }, "[ -L '/data/my file' ]"},
		{"canExecute", func(f *File) bool { return f.CanExecute(ctxT()) }, "[ -x '/data/my file' ]"},
		{"canRead", func(f *File) bool { return f.CanRead(ctxT()) }, "[ -r '/data/my file' ]"},
		{"canWrite", func(f *File) bool { return f.CanWrite(ctxT()) }, "[ -w '/data/my file' ]"},
	}

	for _, tc := range cases {
		r := newFakeRunner()
		f := New(r, "/data/my file")

		if got := tc.call(f); got {
			t.Errorf("%s: got true without scripted success", tc.name)
		}
		if r.lastLine() != tc.want {
			t.Errorf("%s: line = %q, want %q", tc.name, r.lastLine(), tc.want)
		}

		r.ok[tc.want] = true
		if got := tc.call(f); !got {
			t.Errorf("%s: got false with scripted success", tc.name)
		}
	}
}

func TestMutationTemplates(t *testing.T) {
	cases := []struct {
		name string
		call func(f *File) bool
		want string
	}{
		{"createNewFile", func(f *File) bool { return f.CreateNewFile(ctxT()) },
			"[ ! -e '/data/my file' ] && echo -n > '/data/my file'"},
		{"delete", func(f *File) bool { return f.Delete(ctxT()) },
			"rm -f '/data/my file' || rmdir -f '/data/my file'"},
		{"deleteRecursive", func(f *File) bool { return f.DeleteRecursive(ctxT()) },
			"rm -rf '/data/my file'"},
		{"clear", func(f *File) bool { return f.Clear(ctxT()) },
			"echo -n > '/data/my file'"},
		{"mkdir", func(f *File) bool { return f.Mkdir(ctxT()) },
			"mkdir '/data/my file'"},
		{"mkdirs", func(f *File) bool { return f.Mkdirs(ctxT()) },
			"mkdir -p '/data/my file'"},
	}

	for _, tc := range cases {
		r := newFakeRunner()
		r.ok[tc.want] = true
		f := New(r, "/data/my file")
		if !tc.call(f) {
			t.Errorf("%s: got false with scripted success", tc.name)
		}
		if r.lastLine() != tc.want {
			t.Errorf("%s: line = %q, want %q", tc.name, r.lastLine(), tc.want)
		}
	}
}

func TestRenameQuoting(t *testing.T) {
	r := newFakeRunner()
	want := "mv -f '/data/my file' '/data/new file'"
	r.ok[want] = true

	f := New(r, "/data/my file")
	if !f.RenameTo(ctxT(), "/data/new file") {
		t.Error("RenameTo = false")
	}
	if r.lastLine() != want {
		t.Errorf("line = %q, want %q", r.lastLine(), want)
	}
}

// --- Numeric attribute parsing ---

func TestLength(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/data/x")

	r.text["stat -c '%s' /data/x"] = "4096"
	if got := f.Length(ctxT()); got != 4096 {
		t.Errorf("Length = %d, want 4096", got)
	}

	r.text["stat -c '%s' /data/x"] = "not a number"
	if got := f.Length(ctxT()); got != 0 {
		t.Errorf("Length on garbage = %d, want 0", got)
	}
}

func TestLastModified(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/data/x")

	r.text["stat -c '%Y' /data/x"] = "1700000000"
	if got := f.LastModified(ctxT()); got != 1700000000000 {
		t.Errorf("LastModified = %d, want 1700000000000", got)
	}

	delete(r.text, "stat -c '%Y' /data/x")
	if got := f.LastModified(ctxT()); got != 0 {
		t.Errorf("LastModified on empty = %d, want 0", got)
	}
}

func TestPartitionSize(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/data")

	r.text["stat -fc '%S %f' /data"] = "512 2048"
	if got := f.FreeSpace(ctxT()); got != 1048576 {
		t.Errorf("FreeSpace = %d, want 1048576", got)
	}

	r.text["stat -fc '%S %b' /data"] = "512"
	if got := f.TotalSpace(ctxT()); got != math.MaxInt64 {
		t.Errorf("TotalSpace on one token = %d, want MaxInt64", got)
	}

	r.text["stat -fc '%S %a' /data"] = "abc 2048"
	if got := f.UsableSpace(ctxT()); got != math.MaxInt64 {
		t.Errorf("UsableSpace on garbage = %d, want MaxInt64", got)
	}

	if got := New(r, "/empty").FreeSpace(ctxT()); got != math.MaxInt64 {
		t.Errorf("FreeSpace on no output = %d, want MaxInt64", got)
	}
}

func TestCanonicalPath(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/data/link")

	if got := f.CanonicalPath(ctxT()); got != "/data/link" {
		t.Errorf("CanonicalPath fallback = %q, want original path", got)
	}

	r.text["readlink -f /data/link"] = "/real/target"
	if got := f.CanonicalPath(ctxT()); got != "/real/target" {
		t.Errorf("CanonicalPath = %q, want /real/target", got)
	}

	cf := f.CanonicalFile(ctxT())
	if cf.Path() != "/real/target" {
		t.Errorf("CanonicalFile path = %q", cf.Path())
	}
	if cf == f {
		t.Error("CanonicalFile aliases receiver")
	}
}

// --- Timestamp mutation ---

func TestSetLastModified(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/data/x")

	millis := int64(1700000000000)
	stamp := time.UnixMilli(millis).Format("200601021504")
	want := "[ -e /data/x ] && touch -t " + stamp + " /data/x"
	r.ok[want] = true

	if !f.SetLastModified(ctxT(), millis) {
		t.Error("SetLastModified = false")
	}
	if r.lastLine() != want {
		t.Errorf("line = %q, want %q", r.lastLine(), want)
	}
	if len(stamp) != 12 {
		t.Errorf("stamp %q is not minute precision", stamp)
	}
}

// --- Factory ---

func TestOpenPrivileged(t *testing.T) {
	r := newFakeRunner()
	r.priv = true
	e := Open(ctxT(), r, "/data/x")
	if _, ok := e.(*File); !ok {
		t.Fatalf("Open with privilege = %T, want *File", e)
	}
}

func TestOpenUnprivileged(t *testing.T) {
	e := Open(ctxT(), newFakeRunner(), "/data/x")
	if _, ok := e.(*File); ok {
		t.Fatal("Open without privilege returned shell-backed File")
	}
	if e.Path() != "/data/x" {
		t.Errorf("Path = %q", e.Path())
	}
}

// --- End-to-end scenario against a scripted interpreter ---

func TestCreateQueryDeleteScenario(t *testing.T) {
	r := newFakeRunner()
	f := New(r, "/data/local/tmp/x")
	ctx := ctxT()

	exists := "[ -e /data/local/tmp/x ]"
	create := "[ ! -e /data/local/tmp/x ] && echo -n > /data/local/tmp/x"
	clear := "echo -n > /data/local/tmp/x"
	del := "rm -f /data/local/tmp/x || rmdir -f /data/local/tmp/x"

	if f.Exists(ctx) {
		t.Fatal("exists before create")
	}

	r.ok[create] = true
	if !f.CreateNewFile(ctx) {
		t.Fatal("createNewFile failed")
	}

	r.ok[exists] = true
	r.text["stat -c '%s' /data/local/tmp/x"] = "0"
	if !f.Exists(ctx) {
		t.Fatal("missing after create")
	}
	if f.Length(ctx) != 0 {
		t.Fatal("nonzero length for fresh file")
	}

	r.ok[clear] = true
	if !f.Clear(ctx) {
		t.Fatal("clear failed")
	}

	r.ok[del] = true
	if !f.Delete(ctx) {
		t.Fatal("delete failed")
	}

	r.ok[exists] = false
	if f.Exists(ctx) {
		t.Fatal("exists after delete")
	}
}
