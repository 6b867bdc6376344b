package textutil

// Span is a half-open rune range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// TextChunk is one chunk of a document with its position in the
// normalized source text. Ordinal is the zero-based chunk index.
type TextChunk struct {
	Ordinal int
	Content string
	Start   int
	End     int
}

// SplitChunks splits text into overlapping spans of at most chunkSize
// runes. Cut points prefer sentence boundaries, then word boundaries,
// and fall back to a hard cut only for space-free runs. Consecutive
// spans overlap by up to overlap runes, with the overlap start snapped
// forward to a sentence boundary when one exists. The result is
// deterministic, spans are contiguous or overlapping (never gapped),
// and every rune of text belongs to at least one span.
func SplitChunks(text string, chunkSize, overlap int) []Span {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if chunkSize <= 0 {
		return []Span{{Start: 0, End: n}}
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}

	var spans []Span
	start := 0
	for {
		end := start + chunkSize
		if end >= n {
			spans = append(spans, Span{Start: start, End: n})
			break
		}

		cut := lastBoundary(runes, start+1, end)
		if cut < 0 {
			cut = lastWordCut(runes, start+1, end)
		}
		if cut < 0 {
			cut = end
		}
		spans = append(spans, Span{Start: start, End: cut})

		next := cut - overlap
		if next < start+1 {
			next = start + 1
		}
		// prefer starting the overlap at a sentence, then a word
		if b := firstBoundary(runes, next, cut); b >= 0 {
			next = b
		} else if w := firstWordCut(runes, next, cut); w >= 0 {
			next = w
		}
		start = next
	}

	return spans
}

// ChunkText materializes SplitChunks spans into ordered chunks.
func ChunkText(text string, chunkSize, overlap int) []TextChunk {
	runes := []rune(text)
	spans := SplitChunks(text, chunkSize, overlap)

	chunks := make([]TextChunk, 0, len(spans))
	for i, sp := range spans {
		chunks = append(chunks, TextChunk{
			Ordinal: i,
			Content: string(runes[sp.Start:sp.End]),
			Start:   sp.Start,
			End:     sp.End,
		})
	}
	return chunks
}

// isSentenceEnd reports whether a cut directly after position i-1 lands
// on a sentence boundary.
func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '\n', '。', '！', '？':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// lastBoundary returns the largest cut position in (lo, hi] that falls
// right after a sentence terminator, or -1.
func lastBoundary(runes []rune, lo, hi int) int {
	for i := hi; i > lo; i-- {
		if isSentenceEnd(runes[i-1]) {
			return i
		}
	}
	return -1
}

// firstBoundary returns the smallest cut position in [lo, hi) that falls
// right after a sentence terminator, or -1.
func firstBoundary(runes []rune, lo, hi int) int {
	if lo < 1 {
		lo = 1
	}
	for i := lo; i < hi; i++ {
		if isSentenceEnd(runes[i-1]) {
			return i
		}
	}
	return -1
}

// lastWordCut returns the largest cut position in (lo, hi] that falls
// right after whitespace, or -1.
func lastWordCut(runes []rune, lo, hi int) int {
	for i := hi; i > lo; i-- {
		if isSpace(runes[i-1]) {
			return i
		}
	}
	return -1
}

// firstWordCut returns the smallest cut position in [lo, hi) that falls
// right after whitespace, or -1.
func firstWordCut(runes []rune, lo, hi int) int {
	if lo < 1 {
		lo = 1
	}
	for i := lo; i < hi; i++ {
		if isSpace(runes[i-1]) {
			return i
		}
	}
	return -1
}
