package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var headsCmd = &cobra.Command{
	Use:   "heads",
	Short: "List branches and their commit hashes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("heads", err)
		}
		defer r.Close()

		branches := r.Branches()
		names := make([]string, 0, len(branches))
		for name := range branches {
			names = append(names, name)
		}
		sort.Strings(names)

		head := r.Head()
		for _, name := range names {
			marker := "  "
			if head.IsBranch() && head.Branch == name {
				marker = "* "
			}
			fmt.Printf("%s%s %s\n", marker, name, branches[name])
		}
		return nil
	},
}
