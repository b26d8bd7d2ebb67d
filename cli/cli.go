// Package cli wires gnew's repository engine to a cobra command surface:
// init, clone, add/remove, status, heads, diff, cat, checkout, commit, log,
// merge, pull/push, and the low-level hash-file/write-tree/cat-object
// plumbing. Every command opens the repository rooted at the current
// working directory and exits 1 on any Error per the spec's propagation
// policy — the one exception is MergeFailed, which is reported and still
// exits 1 but leaves the worktree writable for a follow-up commit.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/glazedonut/gnew/internal/config"
	"github.com/glazedonut/gnew/internal/repo"
	"github.com/spf13/cobra"
)

const gnewVersion = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "gnew",
	Short: "gnew is a local, file-backed version control engine",
	Long:  `gnew tracks, commits, diffs, and merges files in a content-addressed object store rooted at .gnew/.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version {
			fmt.Printf("gnew version %s\n", gnewVersion)
			os.Exit(0)
		}
		cmd.Help()
	},
}

var version bool

func init() {
	// reportAndExit already prints every error in gnew's own format;
	// cobra's default "Error: ..." line and usage dump would be noise.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.Flags().BoolVar(&version, "version", false, "print the gnew version")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(headsCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(hashFileCmd)
	rootCmd.AddCommand(writeTreeCmd)
	rootCmd.AddCommand(catObjectCmd)
}

// Execute runs the gnew command tree, exiting 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openRepo opens the repository rooted at the current working directory.
func openRepo() (*repo.Repository, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine working directory: %w", err)
	}
	r, err := repo.Open(wd)
	if err != nil {
		return nil, err
	}
	r.Author = config.EnvAuthor
	return r, nil
}

// reportAndExit renders err to stderr in the spec's terse style. A
// MergeFailed carries its own multi-line conflict listing; everything
// else is a single "gnew: <verb>: <error>" line.
func reportAndExit(verb string, err error) error {
	var mergeErr *repo.MergeFailedError
	if errors.As(err, &mergeErr) {
		fmt.Fprintln(os.Stderr, "merge failed, conflicts in:")
		for _, p := range mergeErr.Paths {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
		return err
	}
	fmt.Fprintf(os.Stderr, "gnew: %s: %v\n", verb, err)
	return err
}
