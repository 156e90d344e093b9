package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a file or empty directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		f := e.file(args[0])
		if recursive, _ := cmd.Flags().GetBool("recursive"); recursive {
			return boolExit(f.DeleteRecursive(cmd.Context()))
		}
		return boolExit(f.Delete(cmd.Context()))
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		f := e.file(args[0])
		if parents, _ := cmd.Flags().GetBool("parents"); parents {
			return boolExit(f.Mkdirs(cmd.Context()))
		}
		return boolExit(f.Mkdir(cmd.Context()))
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <src> <dest>",
	Short: "Rename a file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		return boolExit(e.file(args[0]).RenameTo(cmd.Context(), args[1]))
	},
}

var chmodCmd = &cobra.Command{
	Use:   "chmod <toggle> <path>",
	Short: "Toggle a permission class",
	Long: `Toggles one permission class on the path. Toggles:
+r, -r, +w, -w, +x, -x (all classes)
u+r, u-r, u+w, u-w, u+x, u-x (owner only; the minus form still
clears the bit for group and other)
ro (read-only: clear write and execute for all classes)`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		f := e.file(args[1])

		toggle := args[0]
		if toggle == "ro" {
			return boolExit(f.SetReadOnly(ctx))
		}

		ownerOnly := false
		if len(toggle) == 3 && toggle[0] == 'u' {
			ownerOnly = true
			toggle = toggle[1:]
		}
		if len(toggle) != 2 {
			return fmt.Errorf("unknown toggle %q", args[0])
		}
		set := toggle[0] == '+'

		switch toggle[1] {
		case 'r':
			return boolExit(f.SetReadable(ctx, set, ownerOnly))
		case 'w':
			return boolExit(f.SetWritable(ctx, set, ownerOnly))
		case 'x':
			return boolExit(f.SetExecutable(ctx, set, ownerOnly))
		}
		return fmt.Errorf("unknown toggle %q", args[0])
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch <path>",
	Short: "Set the modification time of an existing path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		when := time.Now()
		if stamp, _ := cmd.Flags().GetString("time"); stamp != "" {
			when, err = time.ParseInLocation(time.RFC3339, stamp, time.Local)
			if err != nil {
				return fmt.Errorf("parse --time: %w", err)
			}
		}
		return boolExit(e.file(args[0]).SetLastModified(cmd.Context(), when.UnixMilli()))
	},
}

var createCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Create an empty file if the path does not exist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		return boolExit(e.file(args[0]).CreateNewFile(cmd.Context()))
	},
}

var truncateCmd = &cobra.Command{
	Use:   "truncate <path>",
	Short: "Truncate a file to zero length",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		return boolExit(e.file(args[0]).Clear(cmd.Context()))
	},
}

func init() {
	rmCmd.Flags().BoolP("recursive", "r", false, "Delete directories and their contents")
	mkdirCmd.Flags().BoolP("parents", "p", false, "Create missing parent directories")
	touchCmd.Flags().String("time", "", "RFC 3339 timestamp to set instead of now")

	rootCmd.AddCommand(rmCmd, mkdirCmd, mvCmd, chmodCmd, touchCmd, createCmd, truncateCmd)
}
