package course

import "regexp"

var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)

// EmbedURL converts a YouTube watch or short link into its embeddable form.
// Any other URL is returned unchanged.
func EmbedURL(sourceURL string) string {
	m := youtubeIDPattern.FindStringSubmatch(sourceURL)
	if m == nil {
		return sourceURL
	}
	return "https://www.youtube.com/embed/" + m[1]
}
