package cli

import (
	"fmt"

	"github.com/glazedonut/gnew/internal/repo"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <rev>",
	Short: "Merge rev into the current branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("merge", err)
		}
		defer r.Close()

		theirHash, err := r.RevParse(args[0])
		if err != nil {
			return reportAndExit("merge", err)
		}

		result, err := r.Merge(theirHash)
		if err != nil {
			return reportAndExit("merge", err)
		}
		if result == repo.FastForward {
			fmt.Println("fast-forward")
		} else {
			fmt.Println("merge complete")
		}
		return nil
	},
}
