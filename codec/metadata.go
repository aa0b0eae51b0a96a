package codec

import (
	"bytes"
	"fmt"

	"github.com/binwrap/binwrap-go/contracts"
	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMetadata serializes envelope metadata as a msgpack map. The encoding
// is self-delimiting: DecodeMetadata finds its own end without a length
// prefix.
func EncodeMetadata(meta contracts.Metadata) ([]byte, error) {
	data, err := msgpack.Marshal(&meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return data, nil
}

// DecodeMetadata reads one metadata map from the front of data and reports
// how many bytes it occupied, so the caller can locate the fields that
// follow it.
func DecodeMetadata(data []byte) (contracts.Metadata, int, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)

	var meta contracts.Metadata
	if err := dec.Decode(&meta); err != nil {
		return contracts.Metadata{}, 0, fmt.Errorf("%w: %v", contracts.ErrMalformedMetadata, err)
	}
	consumed := len(data) - r.Len()
	return meta, consumed, nil
}
