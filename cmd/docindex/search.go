package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/docindex"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	results, err := deps.Search.Search(deps.Ctx, query, docindex.SearchOptions{
		Section: c.Section,
		Limit:   docindex.ClampLimit(c.Limit),
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps, docindex.NewSearchResponse(query, c.Section, results))
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results found for query: '%s'\n", query)
		return nil
	}

	fmt.Fprintln(deps.Stdout, docindex.FormatSearchResults(results))
	return nil
}

func writeJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
