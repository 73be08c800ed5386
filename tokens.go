package kgent

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens in text for run statistics and prompt
// budgeting.
type TokenCounter interface {
	Count(text string) int
}

// EstimateCounter approximates token counts as len(text)/CharsPerToken.
// It is the default counter: cheap, dependency-free at runtime, and close
// enough for budget accounting when no exact tokenizer is configured.
type EstimateCounter struct {
	// CharsPerToken is the assumed average. Zero or negative falls back
	// to 4, which tracks English prose on BPE tokenizers.
	CharsPerToken float64
}

// Count implements TokenCounter.
func (c EstimateCounter) Count(text string) int {
	chars := c.CharsPerToken
	if chars <= 0 {
		chars = 4
	}
	n := int(float64(len(text)) / chars)
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// TiktokenCounter counts tokens with a tiktoken BPE encoding, matching what
// OpenAI-family backends bill for.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter for the named encoding
// (e.g., "cl100k_base"). The encoding data is fetched on first use, so
// prefer EstimateCounter in offline environments.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count implements TokenCounter.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
