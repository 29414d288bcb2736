package main

import (
	"os"

	"github.com/wellcomecollection/ssreport/internal/exitcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
