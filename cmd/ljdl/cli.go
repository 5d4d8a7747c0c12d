package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/ljdl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Fetcher   ljdl.Fetcher
	Files     ljdl.FileFetcher
	Archive   ljdl.ArchiveService
	Converter ljdl.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool          `short:"v" help:"Log debug output"`
	DB        string        `name:"db" env:"LJDL_DB" default:"${db}" help:"Archive database path"`
	Rate      float64       `default:"1" help:"Requests per second per host (0 disables the limit)"`
	Timeout   time.Duration `short:"t" default:"30s" help:"HTTP request timeout"`
	UserAgent string        `name:"user-agent" env:"LJDL_USER_AGENT" help:"User-Agent header"`

	Get     GetCmd     `cmd:"" help:"Download posts or whole journals"`
	Dump    DumpCmd    `cmd:"" help:"Print extracted messages as JSON lines"`
	Archive ArchiveCmd `cmd:"" help:"Inspect the download archive"`
}

// ListingFlags select how journal URLs are expanded into posts.
type ListingFlags struct {
	Feed     bool `help:"List journal posts from the RSS feed instead of journal pages"`
	MaxPages int  `name:"max-pages" default:"0" help:"Maximum journal pages to read (0 reads all)"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	URLs          []string `arg:"" name:"url" help:"Post or journal URLs"`
	Dest          string   `short:"d" env:"LJDL_DEST" default:"." help:"Destination directory"`
	NoArchive     bool     `name:"no-archive" help:"Neither consult nor update the archive"`
	WriteMetadata bool     `name:"write-metadata" help:"Save post metadata as JSON"`
	WriteText     bool     `name:"write-text" help:"Save post text as Markdown"`
	Overwrite     bool     `help:"Download files that already exist"`

	Listing ListingFlags `embed:""`
}

// DumpCmd is the "dump" subcommand.
type DumpCmd struct {
	URL string `arg:"" help:"Post or journal URL"`

	Listing ListingFlags `embed:""`
}

// ArchiveCmd groups the archive subcommands.
type ArchiveCmd struct {
	List   ArchiveListCmd   `cmd:"" help:"List archived posts"`
	Delete ArchiveDeleteCmd `cmd:"" help:"Forget an archived post so it is downloaded again"`
}

// ArchiveListCmd is the "archive list" subcommand.
type ArchiveListCmd struct {
	Journal string `short:"j" help:"Only show posts of this journal"`
	Limit   int    `short:"n" default:"0" help:"Maximum entries to show (0 shows all)"`
}

// ArchiveDeleteCmd is the "archive delete" subcommand.
type ArchiveDeleteCmd struct {
	Key string `arg:"" help:"Archive key, e.g. probertson_46158"`
}
