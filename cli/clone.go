package cli

import (
	"fmt"
	"os"

	"github.com/glazedonut/gnew/internal/repo"
	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <dir>",
	Short: "Copy a repository's entire worktree from dir into the current directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return reportAndExit("clone", err)
		}
		if err := repo.Clone(args[0], wd); err != nil {
			return reportAndExit("clone", err)
		}
		fmt.Printf("cloned %s\n", args[0])
		return nil
	},
}
