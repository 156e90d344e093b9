// Package shellfs implements a filesystem path abstraction driven by
// command execution. Every attribute query and mutation on a File is
// performed by splicing the file's escaped path into a fixed command
// template, handing the resulting line to a runner.Runner, and parsing
// the textual result.
//
// This exists for paths that are not reachable through normal host I/O
// calls — typically because they require elevated privilege, or because
// they live on a remote machine only reachable through a shell session.
//
// The following commands are required on the target: rm, rmdir, mv, ls
// and mkdir, plus readlink, touch, stat and chmod for the attribute and
// permission operations.
//
// No operation is atomic with respect to the underlying filesystem.
// Between a query and a subsequent mutation the filesystem state may
// change out from under the caller; there is no locking and there are no
// transactions. This is an inherent limitation of command-based access.
// Results are never cached: every call re-executes its command.
package shellfs
