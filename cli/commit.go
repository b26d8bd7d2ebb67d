package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit <msg>",
	Short: "Record a commit over the currently tracked files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("commit", err)
		}
		defer r.Close()

		c, err := r.Commit(args[0])
		if err != nil {
			return reportAndExit("commit", err)
		}
		fmt.Println(c.Hash)
		return nil
	},
}
