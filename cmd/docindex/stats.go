package main

import (
	"fmt"

	"github.com/fwojciec/docindex"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	n, err := deps.Documents.CountDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Documents: %d\n", n)
	fmt.Fprintf(deps.Stdout, "Database:  %s\n", deps.DBPath)
	return nil
}
