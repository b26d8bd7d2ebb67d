package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log [N]",
	Short: "Show commit history from HEAD, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("log", err)
		}
		defer r.Close()

		limit := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return reportAndExit("log", fmt.Errorf("invalid commit count %q", args[0]))
			}
			limit = n
		}

		h, err := r.HeadHash()
		if err != nil {
			// A newborn branch with no commits yet logs as empty, not an error.
			return nil
		}

		count := 0
		for {
			if limit > 0 && count >= limit {
				break
			}
			commit, err := r.LoadCommit(h)
			if err != nil {
				return reportAndExit("log", err)
			}
			t := time.UnixMilli(commit.TimeMS).UTC().Format(time.RFC3339)
			fmt.Printf("%s %s %s %s\n", commit.Hash, t, commit.Author, commit.Msg)
			count++
			if commit.Parent == nil {
				break
			}
			h = *commit.Parent
		}
		return nil
	},
}
