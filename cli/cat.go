package cli

import (
	"os"

	"github.com/glazedonut/gnew/internal/repo"
	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <rev> <path>",
	Short: "Print a file's content as it exists at rev",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("cat", err)
		}
		defer r.Close()

		hash, err := r.RevParse(args[0])
		if err != nil {
			return reportAndExit("cat", err)
		}
		tree, err := treeOf(r, hash)
		if err != nil {
			return reportAndExit("cat", err)
		}
		files, err := r.FlattenTree(tree)
		if err != nil {
			return reportAndExit("cat", err)
		}
		blobHash, ok := files[args[1]]
		if !ok {
			return reportAndExit("cat", repo.ErrFileNotFound)
		}
		blob, err := r.LoadBlob(blobHash)
		if err != nil {
			return reportAndExit("cat", err)
		}
		if _, err := os.Stdout.Write(blob.Content); err != nil {
			return reportAndExit("cat", err)
		}
		return nil
	},
}
