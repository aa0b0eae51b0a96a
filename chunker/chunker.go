// Package chunker splits payloads into fixed-size sequential chunks for
// incremental transmission. Reassembly is plain concatenation in sequence
// order, so no chunk boundary information needs to travel with the data.
package chunker

import (
	"fmt"

	"github.com/binwrap/binwrap-go/contracts"
)

// DefaultChunkSize is the chunk size used when the caller does not pick one.
const DefaultChunkSize = 1024

// Split cuts data into ceil(len(data)/size) chunks. Every chunk has length
// size except possibly the last, which holds the remainder. Empty input
// yields zero chunks. A non-positive size fails with
// contracts.ErrInvalidArgument.
//
// Chunks alias the input slice; they are views, not copies.
func Split(data []byte, size int) ([][]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d",
			contracts.ErrInvalidArgument, size)
	}
	if len(data) == 0 {
		return nil, nil
	}
	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for off := 0; off < len(data); off += size {
		end := off + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[off:end])
	}
	return chunks, nil
}

// Join concatenates chunks in sequence order, recovering the original bytes
// exactly.
func Join(chunks [][]byte) []byte {
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	joined := make([]byte, 0, total)
	for _, chunk := range chunks {
		joined = append(joined, chunk...)
	}
	return joined
}

// Chunker carries a validated chunk size for repeated splits.
type Chunker struct {
	size int
}

// New returns a chunker for the given size.
func New(size int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d",
			contracts.ErrInvalidArgument, size)
	}
	return &Chunker{size: size}, nil
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.size
}

// Split cuts data using the configured size.
func (c *Chunker) Split(data []byte) [][]byte {
	chunks, _ := Split(data, c.size)
	return chunks
}
