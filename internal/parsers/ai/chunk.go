package ai

import "strings"

// DefaultChunkSize is the default number of characters sent per request.
const DefaultChunkSize = 4000

// chunk splits text into pieces of at most size bytes, breaking only at
// line ends so an item is never cut in half. A single line longer than
// size becomes its own chunk.
func chunk(text string, size int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	var chunks []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			chunks = append(chunks, s)
		}
		b.Reset()
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if b.Len() > 0 && b.Len()+len(line) > size {
			flush()
		}
		b.WriteString(line)
	}
	flush()
	return chunks
}
