package cli

import (
	"fmt"
	"os"

	"github.com/glazedonut/gnew/internal/objects"
	"github.com/spf13/cobra"
)

var hashFileCmd = &cobra.Command{
	Use:   "hash-file <path>",
	Short: "Print the blob hash a file's content would stamp, without writing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return reportAndExit("hash-file", err)
		}
		blob, _ := objects.EncodeBlob(content)
		fmt.Println(blob.Hash)
		return nil
	},
}

var writeTreeCmd = &cobra.Command{
	Use:   "write-tree",
	Short: "Write the current tracklist as a tree object and print its hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("write-tree", err)
		}
		defer r.Close()

		tree, err := r.WriteTree()
		if err != nil {
			return reportAndExit("write-tree", err)
		}
		fmt.Println(tree.Hash)
		return nil
	},
}

var catObjectCmd = &cobra.Command{
	Use:   "cat-object {blob|tree|commit} <hash>",
	Short: "Print a raw object's decoded form by hash",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return reportAndExit("cat-object", err)
		}
		defer r.Close()

		hash, err := objects.ParseHash(args[1])
		if err != nil {
			return reportAndExit("cat-object", err)
		}

		switch args[0] {
		case "blob":
			blob, err := r.LoadBlob(hash)
			if err != nil {
				return reportAndExit("cat-object", err)
			}
			os.Stdout.Write(blob.Content)
		case "tree":
			tree, err := r.LoadTree(hash)
			if err != nil {
				return reportAndExit("cat-object", err)
			}
			for _, e := range tree.Entries {
				kind := "blob"
				if e.Kind == objects.TreeEntryKind {
					kind = "tree"
				}
				fmt.Printf("%s %s %s\n", kind, e.Hash, e.Name)
			}
		case "commit":
			commit, err := r.LoadCommit(hash)
			if err != nil {
				return reportAndExit("cat-object", err)
			}
			fmt.Printf("tree %s\n", commit.Tree)
			if commit.Parent != nil {
				fmt.Printf("parent %s\n", *commit.Parent)
			}
			fmt.Printf("author %s\n", commit.Author)
			fmt.Printf("time %d\n\n%s\n", commit.TimeMS, commit.Msg)
		default:
			return reportAndExit("cat-object", fmt.Errorf("unknown object kind %q, want blob, tree, or commit", args[0]))
		}
		return nil
	},
}
