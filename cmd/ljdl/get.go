package main

import (
	"fmt"

	"github.com/fwojciec/ljdl"
	"github.com/fwojciec/ljdl/fs"
	"github.com/fwojciec/ljdl/goquery"
	ljhttp "github.com/fwojciec/ljdl/http"
	"github.com/fwojciec/ljdl/job"
	"github.com/fwojciec/ljdl/livejournal"
	ljslog "github.com/fwojciec/ljdl/slog"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	var archive ljdl.ArchiveService
	if !c.NoArchive {
		archive = deps.Archive
	}
	store := fs.NewFileStore(c.Dest)

	total := job.Stats{}
	for _, u := range c.URLs {
		ex, err := livejournal.Find(u, deps.Fetcher, c.Listing.lister(deps))
		if err != nil {
			return errorf(deps, err)
		}

		j := &job.DownloadJob{
			Extractor:     ex,
			Files:         deps.Files,
			Store:         store,
			Archive:       archive,
			Converter:     deps.Converter,
			Logger:        deps.Logger,
			WriteMetadata: c.WriteMetadata,
			WriteText:     c.WriteText,
			Overwrite:     c.Overwrite,
		}
		stats, err := j.Run(deps.Ctx)
		if stats != nil {
			total.Posts += stats.Posts
			total.Skipped += stats.Skipped
			total.Empty += stats.Empty
			total.Files += stats.Files
			total.Existing += stats.Existing
			total.Failed += stats.Failed
			total.Bytes += stats.Bytes
		}
		if err != nil {
			return errorf(deps, err)
		}
	}

	fmt.Fprintf(deps.Stdout, "Saved %d files (%d bytes) from %d posts\n", total.Files, total.Bytes, total.Posts)
	if total.Existing > 0 || total.Skipped > 0 || total.Empty > 0 {
		fmt.Fprintf(deps.Stdout, "Skipped %d existing files, %d archived posts, %d unavailable posts\n", total.Existing, total.Skipped, total.Empty)
	}
	if total.Failed > 0 {
		return errorf(deps, ljdl.Errorf(ljdl.EHTTP, "%d files failed to download", total.Failed))
	}
	return nil
}

// lister returns the post lister used to expand journal URLs.
func (f ListingFlags) lister(deps *Dependencies) ljdl.PostLister {
	var l ljdl.PostLister
	if f.Feed {
		l = ljhttp.NewFeedLister(deps.Fetcher)
	} else {
		l = &livejournal.PageLister{
			Fetcher:  deps.Fetcher,
			Selector: goquery.NewPostLinkSelector(),
			MaxPages: f.MaxPages,
		}
	}
	if deps.Logger != nil {
		l = ljslog.NewLoggingLister(l, deps.Logger)
	}
	return l
}
