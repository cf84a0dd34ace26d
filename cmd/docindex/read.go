package main

import (
	"fmt"

	"github.com/fwojciec/docindex"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	doc, err := deps.Documents.FindDocumentByPath(deps.Ctx, c.Path)
	if docindex.ErrorCode(err) == docindex.ENOTFOUND {
		resp := docindex.NewNotFoundResponse(c.Path)
		if c.JSON {
			if jerr := writeJSON(deps, resp); jerr != nil {
				return jerr
			}
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n%s\n", resp.Error, resp.Suggestion)
		return err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps, docindex.NewReadResponse(doc))
	}

	fmt.Fprintln(deps.Stdout, docindex.FormatDocument(doc))
	return nil
}
