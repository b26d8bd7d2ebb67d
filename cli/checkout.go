package cli

import (
	"fmt"

	"github.com/glazedonut/gnew/internal/refs"
	"github.com/spf13/cobra"
)

var (
	checkoutCreate bool
	checkoutForce  bool
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch-or-hash>",
	Short: "Switch HEAD and the worktree to a branch or commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("checkout", err)
		}
		defer r.Close()

		target := args[0]

		if checkoutCreate {
			if err := r.CreateBranch(target); err != nil {
				return reportAndExit("checkout", err)
			}
			fmt.Printf("switched to new branch %s\n", target)
			return nil
		}

		var ref refs.Reference
		if _, exists := r.Branches()[target]; exists {
			ref = refs.Branch(target)
		} else {
			hash, err := r.RevParse(target)
			if err != nil {
				return reportAndExit("checkout", err)
			}
			ref = refs.Detached(hash)
		}

		if err := r.Checkout(ref, checkoutForce); err != nil {
			return reportAndExit("checkout", err)
		}
		fmt.Printf("switched to %s\n", target)
		return nil
	},
}

func init() {
	checkoutCmd.Flags().BoolVarP(&checkoutCreate, "branch", "b", false, "create and switch to a new branch")
	checkoutCmd.Flags().BoolVarP(&checkoutForce, "force", "f", false, "discard uncommitted changes")
}
