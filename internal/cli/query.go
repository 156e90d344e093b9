package cli

import (
	"fmt"
	"math"
	"path"
	"time"

	"github.com/spf13/cobra"

	"shellfs/internal/domain"
)

var testCmd = &cobra.Command{
	Use:   "test <predicate> <path>",
	Short: "Evaluate a path predicate (exit code carries the answer)",
	Long: `Evaluates one predicate against the path. Predicates:
exists, dir, file, block, char, symlink, exec, read, write`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		f := e.file(args[1])

		var ok bool
		switch args[0] {
		case "exists":
			ok = f.Exists(ctx)
		case "dir":
			ok = f.IsDirectory(ctx)
		case "file":
			ok = f.IsFile(ctx)
		case "block":
			ok = f.IsBlock(ctx)
		case "char":
			ok = f.IsCharacter(ctx)
		case "symlink":
			ok = f.IsSymlink(ctx)
		case "exec":
			ok = f.CanExecute(ctx)
		case "read":
			ok = f.CanRead(ctx)
		case "write":
			ok = f.CanWrite(ctx)
		default:
			return fmt.Errorf("unknown predicate %q", args[0])
		}
		return boolExit(ok)
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Print size and modification time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		f := e.file(args[0])
		if !f.Exists(ctx) {
			return ErrExitFalse
		}

		printLine("path:  %s", f.Path())
		printLine("size:  %d", f.Length(ctx))
		printLine("mtime: %s", time.UnixMilli(f.LastModified(ctx)).Format(time.RFC3339))
		return nil
	},
}

var dfCmd = &cobra.Command{
	Use:   "df <path>",
	Short: "Print partition sizes for the path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		f := e.file(args[0])

		for _, row := range []struct {
			label string
			bytes int64
		}{
			{"total", f.TotalSpace(ctx)},
			{"free", f.FreeSpace(ctx)},
			{"usable", f.UsableSpace(ctx)},
		} {
			if row.bytes == math.MaxInt64 {
				printLine("%-7s unknown", row.label)
			} else {
				printLine("%-7s %d", row.label, row.bytes)
			}
		}
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List directory entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		pattern, _ := cmd.Flags().GetString("pattern")
		var filter func(string) bool
		if pattern != "" {
			filter = func(name string) bool {
				ok, err := path.Match(pattern, name)
				return err == nil && ok
			}
		}

		names := e.file(args[0]).ListNames(cmd.Context(), filter)
		if names == nil {
			return domain.NewDomainError("ls", domain.ErrNotDirectory, args[0])
		}
		for _, name := range names {
			printLine("%s", name)
		}
		return nil
	},
}

var readlinkCmd = &cobra.Command{
	Use:   "readlink <path>",
	Short: "Print the canonical path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		printLine("%s", e.file(args[0]).CanonicalPath(cmd.Context()))
		return nil
	},
}

func init() {
	lsCmd.Flags().String("pattern", "", "Only list names matching this glob pattern")

	rootCmd.AddCommand(testCmd, statCmd, dfCmd, lsCmd, readlinkCmd)
}
