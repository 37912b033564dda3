// Package metrics aggregates byte/token/line counts for bundle sections.
package metrics

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter provides methods for counting bytes, tokens, and lines in text.
type Counter interface {
	// Count returns the number of bytes, tokens, and lines in the given text
	Count(text string) (bytes, tokens, lines int)
}

// SimpleCounter estimates tokens as bytes/4.
type SimpleCounter struct{}

// Count returns bytes, estimated tokens, and lines for the given text
func (c *SimpleCounter) Count(text string) (int, int, int) {
	byteCount := len(text)
	lines := bytes.Count([]byte(text), []byte{'\n'}) + 1
	return byteCount, estimateTokensSimple(text), lines
}

// TiktokenCounter uses the tiktoken library to count tokens.
type TiktokenCounter struct {
	model string
}

// NewTiktokenCounter creates a new TiktokenCounter for the given model
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	if _, err := tiktoken.EncodingForModel(model); err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s", model)
	}
	return &TiktokenCounter{model: model}, nil
}

// Count returns bytes, tokens (using tiktoken), and lines for the given text
func (c *TiktokenCounter) Count(text string) (int, int, int) {
	byteCount := len(text)
	lines := bytes.Count([]byte(text), []byte{'\n'}) + 1

	encoding, err := tiktoken.EncodingForModel(c.model)
	if err != nil {
		return byteCount, estimateTokensSimple(text), lines
	}
	tokens := encoding.Encode(strings.TrimSpace(text), nil, nil)
	return byteCount, len(tokens), lines
}

// estimateTokensSimple approximates token count as ~4 bytes per token for
// English text.
func estimateTokensSimple(text string) int {
	return len(text) / 4
}
