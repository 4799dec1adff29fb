// format.go — Renders movie records as plain text and splits long listings
// into transport-sized chunks.
package bot

import (
	"strconv"
	"strings"

	"github.com/kylemdonovan/moviebot/internal/catalog"
)

// MaxMessageLen is the transport's maximum message size. Whole movie blocks
// are packed into chunks no longer than this; a single block that exceeds it
// on its own is sent unsplit rather than cut mid-record.
const MaxMessageLen = 2000

// blockSep separates movie blocks inside a chunk.
const blockSep = "\n\n"

// RenderOne renders a movie as its fixed five-line block. Fields the
// enrichment never filled in render as N/A.
func RenderOne(m catalog.Movie) string {
	title := m.Title
	if title == "" {
		title = "N/A"
	}
	year := m.ReleaseYear
	if year == "" {
		year = "N/A"
	}
	watch := "N/A"
	if len(m.Services) > 0 {
		watch = strings.Join(m.Services, ", ")
	}
	rating := "N/A"
	if m.Rating != nil {
		rating = strconv.FormatFloat(*m.Rating, 'f', -1, 64)
	}

	var b strings.Builder
	b.WriteString("Name: " + m.Name + "\n")
	b.WriteString("Title: " + title + "\n")
	b.WriteString("Release Year: " + year + "\n")
	b.WriteString("Where to Watch: " + watch + "\n")
	b.WriteString("Rating: " + rating)
	return b.String()
}

// RenderMany renders each movie with RenderOne, separates blocks with a
// blank line, and greedily packs whole blocks into chunks of at most
// MaxMessageLen characters. Joining the returned chunks with a blank line
// reproduces the full listing.
func RenderMany(movies []catalog.Movie) []string {
	var chunks []string
	var current strings.Builder

	for _, m := range movies {
		block := RenderOne(m)
		if current.Len() == 0 {
			current.WriteString(block)
			continue
		}
		if current.Len()+len(blockSep)+len(block) > MaxMessageLen {
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(block)
			continue
		}
		current.WriteString(blockSep)
		current.WriteString(block)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
