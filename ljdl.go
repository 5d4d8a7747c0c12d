// Package ljdl provides a LiveJournal post extractor and downloader.
// It resolves post and journal URLs, scrapes post metadata and embedded
// image URLs from the post page, and streams them as Directory and URL
// messages to a download pipeline that stores files and records an archive.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, htmltomarkdown/).
package ljdl

// Category identifies the site in path and archive templates.
const Category = "livejournal"
