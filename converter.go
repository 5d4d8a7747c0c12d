package ljdl

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a post body,
	// into Markdown.
	Convert(html string) (string, error)
}
