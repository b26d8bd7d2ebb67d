package cli

import (
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <paths...>",
	Short: "Start tracking one or more files or directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("add", err)
		}
		defer r.Close()
		if err := r.Add(args); err != nil {
			return reportAndExit("add", err)
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <paths...>",
	Short: "Stop tracking one or more files or directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("remove", err)
		}
		defer r.Close()
		if err := r.Remove(args); err != nil {
			return reportAndExit("remove", err)
		}
		return nil
	},
}
