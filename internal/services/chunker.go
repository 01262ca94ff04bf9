package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits long text into overlapping pieces sized for embedding.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker. Sizes are in runes and no chunk is longer
// than maxChunkSize. Paragraphs are kept whole when they fit; longer ones are
// split on sentence boundaries, then on words, and a single over-long word is
// cut. Each new chunk starts with the last overlap runes of the previous one
// when they leave room for the next piece.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	b := &chunkBuilder{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			b.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			for _, piece := range splitOversized(sentence, maxChunkSize) {
				b.add(piece, " ")
			}
		}
	}

	return b.finish()
}

type chunkBuilder struct {
	max     int
	overlap int
	chunks  []string
	current strings.Builder
	runes   int
	// fresh is true while current only holds carried-over overlap text.
	fresh bool
}

// add appends piece, which must be at most max runes long.
func (b *chunkBuilder) add(piece, sep string) {
	pieceLen := utf8.RuneCountInString(piece)
	sepLen := utf8.RuneCountInString(sep)
	if b.runes > 0 && b.runes+sepLen+pieceLen > b.max {
		if !b.fresh {
			b.flush()
		}
		// The carried overlap leaves no room for piece.
		if b.runes > 0 && b.runes+sepLen+pieceLen > b.max {
			b.reset()
		}
	}

	if b.runes > 0 {
		b.current.WriteString(sep)
		b.runes += sepLen
	}
	b.current.WriteString(piece)
	b.runes += pieceLen
	b.fresh = false
}

func (b *chunkBuilder) flush() {
	prev := b.current.String()
	b.chunks = append(b.chunks, prev)
	b.current.Reset()
	b.runes = 0

	if tail := lastNRunes(prev, b.overlap); tail != "" {
		b.current.WriteString(tail)
		b.runes = utf8.RuneCountInString(tail)
		b.fresh = true
	}
}

func (b *chunkBuilder) reset() {
	b.current.Reset()
	b.runes = 0
	b.fresh = false
}

func (b *chunkBuilder) finish() []string {
	if b.runes > 0 && !b.fresh {
		b.chunks = append(b.chunks, b.current.String())
	}
	return b.chunks
}

func splitIntoSentences(text string) []string {
	var result []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				result = append(result, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		result = append(result, s)
	}
	return result
}

// splitOversized breaks text longer than limit runes into pieces of at most
// limit runes, on word boundaries where it can.
func splitOversized(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		pieces  []string
		current strings.Builder
		runes   int
	)
	emit := func() {
		if runes > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
			runes = 0
		}
	}

	for _, word := range strings.Fields(text) {
		wordRunes := []rune(word)
		for len(wordRunes) > limit {
			emit()
			pieces = append(pieces, string(wordRunes[:limit]))
			wordRunes = wordRunes[limit:]
		}
		if len(wordRunes) == 0 {
			continue
		}

		if runes > 0 && runes+1+len(wordRunes) > limit {
			emit()
		}
		if runes > 0 {
			current.WriteByte(' ')
			runes++
		}
		current.WriteString(string(wordRunes))
		runes += len(wordRunes)
	}
	emit()

	return pieces
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
