package cli

import (
	"fmt"

	"github.com/glazedonut/gnew/internal/repo"
	"github.com/spf13/cobra"
)

var (
	pullAll bool
	pushAll bool
)

var pullCmd = &cobra.Command{
	Use:   "pull <dir>",
	Short: "Fetch objects and branches from a peer repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("pull", err)
		}
		defer r.Close()

		peer, err := repo.OpenRemote(args[0])
		if err != nil {
			return reportAndExit("pull", err)
		}
		defer peer.Close()

		if err := r.Pull(peer, pullAll); err != nil {
			return reportAndExit("pull", err)
		}
		fmt.Println("pull complete")
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <dir>",
	Short: "Send objects and branches to a peer repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("push", err)
		}
		defer r.Close()

		peer, err := repo.OpenRemote(args[0])
		if err != nil {
			return reportAndExit("push", err)
		}
		defer peer.Close()

		if err := r.Push(peer, pushAll); err != nil {
			return reportAndExit("push", err)
		}
		fmt.Println("push complete")
		return nil
	},
}

func init() {
	pullCmd.Flags().BoolVarP(&pullAll, "all", "a", false, "reconcile every branch, not just the current one")
	pushCmd.Flags().BoolVarP(&pushAll, "all", "a", false, "send every branch, not just the current one")
}
