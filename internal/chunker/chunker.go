// File path: internal/chunker/chunker.go
package chunker

import (
	"errors"
	"strings"
)

// ErrEmptyInput reports that a document produced no text to split.
var ErrEmptyInput = errors.New("chunker: empty input text")

// Piece is one span of the source text. Offset is the rune offset of the
// piece within the original text.
type Piece struct {
	Text   string
	Offset int
}

// Chunker splits text into overlapping pieces, preferring paragraph and
// sentence boundaries over hard cuts. Splitting is deterministic: the same
// text and parameters always produce the same pieces.
type Chunker struct {
	size    int
	overlap int
}

// New returns a Chunker producing pieces of at most size runes, each
// overlapping the previous piece by overlap runes. Out-of-range parameters
// are clamped.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size/2 {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split cuts text into pieces. Every piece except the last holds between
// size/2 and size runes; subsequent pieces repeat the trailing overlap runes
// of their predecessor. Concatenating the pieces with the overlap prefix of
// each subsequent piece removed reconstructs text exactly.
func (c *Chunker) Split(text string) ([]Piece, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	runes := []rune(text)
	if len(runes) <= c.size {
		return []Piece{{Text: text, Offset: 0}}, nil
	}
	var pieces []Piece
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			pieces = append(pieces, Piece{Text: string(runes[start:]), Offset: start})
			break
		}
		end = cutPoint(runes, start+c.size/2, end)
		pieces = append(pieces, Piece{Text: string(runes[start:end]), Offset: start})
		start = end - c.overlap
	}
	return pieces, nil
}

// cutPoint finds the best boundary in (min, max]: the last paragraph break,
// else the last sentence end, else the last space, else max.
func cutPoint(runes []rune, min, max int) int {
	window := string(runes[min:max])
	if idx := strings.LastIndex(window, "\n\n"); idx >= 0 {
		return min + len([]rune(window[:idx+2]))
	}
	if idx := lastSentenceEnd(window); idx >= 0 {
		return min + idx
	}
	if idx := strings.LastIndexFunc(window, func(r rune) bool { return r == ' ' || r == '\n' || r == '\t' }); idx >= 0 {
		return min + len([]rune(window[:idx+1]))
	}
	return max
}

// lastSentenceEnd returns the rune index just past the last terminator that
// is followed by whitespace, or -1.
func lastSentenceEnd(window string) int {
	runes := []rune(window)
	for i := len(runes) - 1; i > 0; i-- {
		switch runes[i] {
		case ' ', '\n', '\t':
			prev := runes[i-1]
			if prev == '.' || prev == '!' || prev == '?' {
				return i
			}
		}
	}
	return -1
}
