package summarizer

import "strings"

// ChunkWords is the maximum number of words handed to the engine at once.
// 750 words stays inside a 1024 token encoder window for BART-sized models.
const ChunkWords = 750

// Chunk is a contiguous run of words from the input text.
type Chunk struct {
	Index     int
	Text      string
	WordCount int
}

// SplitIntoChunks groups the whitespace separated words of text into chunks
// of at most maxWords words, rejoined with single spaces. Text without words
// yields no chunks.
func SplitIntoChunks(text string, maxWords int) []Chunk {
	if maxWords <= 0 {
		maxWords = ChunkWords
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	out := make([]Chunk, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := min(start+maxWords, len(words))
		out = append(out, Chunk{
			Index:     len(out),
			Text:      strings.Join(words[start:end], " "),
			WordCount: end - start,
		})
	}
	return out
}

func chunkTexts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	return texts
}
