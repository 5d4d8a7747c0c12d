package main

import (
	"fmt"

	"github.com/fwojciec/ljdl"
)

// Run executes the archive list command.
func (c *ArchiveListCmd) Run(deps *Dependencies) error {
	filter := ljdl.ArchiveFilter{Limit: c.Limit}
	if c.Journal != "" {
		filter.Journal = &c.Journal
	}

	entries, err := deps.Archive.FindEntries(deps.Ctx, filter)
	if err != nil {
		return errorf(deps, err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No archived posts. Use 'ljdl get' to download some.")
		return nil
	}

	for _, e := range entries {
		posted := "-"
		if !e.PostedAt.IsZero() {
			posted = e.PostedAt.Format("2006-01-02")
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d files  %s\n", e.Key, posted, e.Files, e.Title)
	}

	return nil
}

// Run executes the archive delete command.
func (c *ArchiveDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Archive.DeleteEntry(deps.Ctx, c.Key); err != nil {
		if ljdl.ErrorCode(err) == ljdl.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %q is not archived. Use 'ljdl archive list' to see archived posts.\n", c.Key)
			return err
		}
		return errorf(deps, err)
	}

	fmt.Fprintf(deps.Stdout, "Removed %q from the archive\n", c.Key)
	return nil
}
