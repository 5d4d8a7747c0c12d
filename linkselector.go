package ljdl

// LinkSelector extracts post links from a journal listing page.
type LinkSelector interface {
	// SelectPostLinks parses HTML and returns the absolute URLs of posts
	// belonging to the journal of baseURL, in document order and without
	// duplicates. The baseURL is used to resolve relative URLs.
	SelectPostLinks(html string, baseURL string) ([]string, error)
}
