package document

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultSeparators are tried in order: paragraphs, lines, words, characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// chunkNamespace seeds the name-based chunk IDs.
var chunkNamespace = uuid.MustParse("6f1c6a3e-52f4-4c52-9a0e-0b7d7c1f3a21")

// Chunk is an immutable span of page text ready to be embedded.
type Chunk struct {
	ID     string
	Source string
	Page   int
	Index  int // position within the page
	Text   string
}

// Splitter breaks text recursively on a list of separators until every piece
// fits in ChunkSize runes, then merges neighbouring pieces back together with
// up to ChunkOverlap runes shared between consecutive chunks. Separators stay
// attached to the start of the piece that follows them.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// NewSplitter validates the chunking parameters.
func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, &ConfigError{Field: "chunk_size", Value: chunkSize, Reason: "must be positive"}
	}
	if chunkOverlap < 0 {
		return nil, &ConfigError{Field: "chunk_overlap", Value: chunkOverlap, Reason: "must not be negative"}
	}
	if chunkOverlap >= chunkSize {
		return nil, &ConfigError{
			Field:  "chunk_overlap",
			Value:  chunkOverlap,
			Reason: fmt.Sprintf("must be smaller than chunk_size (%d)", chunkSize),
		}
	}
	return &Splitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Separators:   DefaultSeparators,
	}, nil
}

// SplitPages chunks every page independently, keeping page order.
func (s *Splitter) SplitPages(pages []Page) []Chunk {
	var chunks []Chunk
	for _, p := range pages {
		for i, text := range s.SplitText(p.Text) {
			chunks = append(chunks, Chunk{
				ID:     chunkID(p.Source, p.Number, i, text),
				Source: p.Source,
				Page:   p.Number,
				Index:  i,
				Text:   text,
			})
		}
	}
	return chunks
}

// SplitText returns the trimmed, non-empty chunks of text.
func (s *Splitter) SplitText(text string) []string {
	seps := s.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	return s.split(text, seps)
}

func (s *Splitter) split(text string, separators []string) []string {
	// Pick the first separator present in the text; "" always matches.
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var chunks, good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, s.merge(good)...)
	}
	return chunks
}

// merge joins small pieces into chunks of at most ChunkSize runes, carrying
// the tail of each chunk (up to ChunkOverlap runes) into the next one.
func (s *Splitter) merge(pieces []string) []string {
	var (
		out     []string
		current []string
		total   int
	)
	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.ChunkSize && len(current) > 0 {
			if doc := joinTrimmed(current); doc != "" {
				out = append(out, doc)
			}
			for total > s.ChunkOverlap || (total+n > s.ChunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if doc := joinTrimmed(current); doc != "" {
		out = append(out, doc)
	}
	return out
}

// splitKeepingSeparator splits text on sep and prefixes every piece but the
// first with the separator. An empty separator splits into runes. Empty
// pieces are dropped.
func splitKeepingSeparator(text, sep string) []string {
	var pieces []string
	if sep == "" {
		pieces = make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces = make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func joinTrimmed(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func chunkID(source string, page, index int, text string) string {
	name := fmt.Sprintf("%s\x00%d\x00%d\x00%s", source, page, index, text)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}
