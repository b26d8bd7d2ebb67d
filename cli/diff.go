package cli

import (
	"fmt"

	"github.com/glazedonut/gnew/internal/objects"
	"github.com/glazedonut/gnew/internal/repo"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff [rev [rev]]",
	Short: "Show changes between two revisions, or a revision and the worktree",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("diff", err)
		}
		defer r.Close()

		revOrHead := func(s string) (objects.Hash, error) {
			if s == "" {
				return r.HeadHash()
			}
			return r.RevParse(s)
		}

		var changes []repo.Change
		switch len(args) {
		case 2:
			fromHash, err := revOrHead(args[0])
			if err != nil {
				return reportAndExit("diff", err)
			}
			toHash, err := revOrHead(args[1])
			if err != nil {
				return reportAndExit("diff", err)
			}
			fromTree, err := treeOf(r, fromHash)
			if err != nil {
				return reportAndExit("diff", err)
			}
			toTree, err := treeOf(r, toHash)
			if err != nil {
				return reportAndExit("diff", err)
			}
			changes, err = r.Diff(fromTree, toTree)
			if err != nil {
				return reportAndExit("diff", err)
			}
		case 1:
			fromHash, err := revOrHead(args[0])
			if err != nil {
				return reportAndExit("diff", err)
			}
			fromTree, err := treeOf(r, fromHash)
			if err != nil {
				return reportAndExit("diff", err)
			}
			changes, err = r.DiffWorktree(fromTree)
			if err != nil {
				return reportAndExit("diff", err)
			}
		default:
			fromHash, err := revOrHead("")
			if err != nil {
				return reportAndExit("diff", err)
			}
			fromTree, err := treeOf(r, fromHash)
			if err != nil {
				return reportAndExit("diff", err)
			}
			changes, err = r.DiffWorktree(fromTree)
			if err != nil {
				return reportAndExit("diff", err)
			}
		}

		for _, c := range changes {
			switch c.Kind {
			case repo.ChangeAdd:
				fmt.Printf("A %s\n", c.Path)
			case repo.ChangeRemove:
				fmt.Printf("R %s\n", c.Path)
			case repo.ChangeModify:
				fmt.Printf("M %s\n", c.Path)
			}
		}
		return nil
	},
}

func treeOf(r *repo.Repository, h objects.Hash) (objects.Tree, error) {
	commit, err := r.LoadCommit(h)
	if err != nil {
		return objects.Tree{}, err
	}
	return r.LoadTree(commit.Tree)
}
