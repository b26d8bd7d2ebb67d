package cli

import (
	"fmt"
	"sort"

	"github.com/glazedonut/gnew/internal/colors"
	"github.com/glazedonut/gnew/internal/objects"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracked and untracked file status against HEAD",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("status", err)
		}
		defer r.Close()

		var tree objects.Tree
		if h, err := r.HeadHash(); err == nil {
			commit, err := r.LoadCommit(h)
			if err != nil {
				return reportAndExit("status", err)
			}
			tree, err = r.LoadTree(commit.Tree)
			if err != nil {
				return reportAndExit("status", err)
			}
		}

		statuses, err := r.Status(tree)
		if err != nil {
			return reportAndExit("status", err)
		}

		paths := make([]string, 0, len(statuses))
		for p := range statuses {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		fmt.Printf("on %s\n", r.Head())
		for _, p := range paths {
			s := statuses[p]
			fmt.Println(colors.StatusColor(s.Code(), fmt.Sprintf("%s %s", s.Code(), p)))
		}
		return nil
	},
}
