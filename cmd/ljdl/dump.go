package main

import (
	"github.com/fwojciec/ljdl/job"
	"github.com/fwojciec/ljdl/livejournal"
)

// Run executes the dump command.
func (c *DumpCmd) Run(deps *Dependencies) error {
	ex, err := livejournal.Find(c.URL, deps.Fetcher, c.Listing.lister(deps))
	if err != nil {
		return errorf(deps, err)
	}

	j := &job.DataJob{Extractor: ex, Out: deps.Stdout}
	if _, err := j.Run(deps.Ctx); err != nil {
		return errorf(deps, err)
	}
	return nil
}
