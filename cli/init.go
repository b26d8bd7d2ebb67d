package cli

import (
	"fmt"
	"os"

	"github.com/glazedonut/gnew/internal/repo"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new repository in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return reportAndExit("init", err)
		}
		r, err := repo.Init(wd)
		if err != nil {
			return reportAndExit("init", err)
		}
		defer r.Close()
		fmt.Printf("initialized empty repository in %s\n", r.StorageDir)
		return nil
	},
}
