package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wellcomecollection/ssreport/internal/gitutil"
)

var absolutePaths bool

var changedCmd = &cobra.Command{
	Use:   "changed [-- GIT_DIFF_ARGS...]",
	Short: "List paths changed in a commit range",
	Long: "Runs `git diff --name-only` with the given arguments and prints each changed\n" +
		"path once, sorted. Pass git flags after `--`, for example:\n\n" +
		"  ssreport changed -- origin/main...HEAD",
	RunE: runChanged,
}

func init() {
	changedCmd.Flags().BoolVar(&absolutePaths, "absolute", false, "Print paths joined to the repository root")
	rootCmd.AddCommand(changedCmd)
}

func runChanged(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	paths, err := gitutil.ChangedPaths(ctx, "", args...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(gitutil.ExitCode(err))
	}

	root := ""
	if absolutePaths {
		root, err = gitutil.RepoRoot(ctx, "")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(gitutil.ExitCode(err))
		}
	}

	for _, p := range paths {
		if root != "" {
			p = filepath.Join(root, p)
		}
		fmt.Println(p)
	}
	return nil
}
