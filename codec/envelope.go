package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/binwrap/binwrap-go/contracts"
)

// magic identifies the binwrap envelope format.
var magic = [2]byte{0x42, 0x57}

// payloadLenSize is the width of the big-endian payload length field.
const payloadLenSize = 8

// BuildHeader returns the fixed 6-byte envelope header for a schema id.
func BuildHeader(schemaID uint32) [contracts.HeaderSize]byte {
	var header [contracts.HeaderSize]byte
	header[0] = magic[0]
	header[1] = magic[1]
	binary.BigEndian.PutUint32(header[2:], schemaID)
	return header
}

// ParseHeader extracts the schema id from an envelope header. It fails with
// contracts.ErrTruncated when fewer than 6 bytes are supplied and
// contracts.ErrBadMagic when the magic constant does not match.
func ParseHeader(header []byte) (uint32, error) {
	if len(header) < contracts.HeaderSize {
		return 0, fmt.Errorf("%w: header needs %d bytes, got %d",
			contracts.ErrTruncated, contracts.HeaderSize, len(header))
	}
	if header[0] != magic[0] || header[1] != magic[1] {
		return 0, fmt.Errorf("%w: got 0x%02x 0x%02x", contracts.ErrBadMagic, header[0], header[1])
	}
	return binary.BigEndian.Uint32(header[2:contracts.HeaderSize]), nil
}

// Marshal flattens an envelope into the on-disk/on-wire layout. The header
// magic and the header/metadata schema id agreement are enforced before any
// bytes are produced.
func Marshal(env *contracts.Envelope) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil envelope", contracts.ErrInvalidArgument)
	}
	schemaID, err := ParseHeader(env.Header[:])
	if err != nil {
		return nil, fmt.Errorf("%w: envelope header is invalid", contracts.ErrInvalidArgument)
	}
	if schemaID != env.Metadata.SchemaID {
		return nil, fmt.Errorf("%w: header schema id %d disagrees with metadata schema id %d",
			contracts.ErrInvalidArgument, schemaID, env.Metadata.SchemaID)
	}

	meta, err := EncodeMetadata(env.Metadata)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(contracts.HeaderSize + len(meta) + payloadLenSize + len(env.Payload))
	buf.Write(env.Header[:])
	buf.Write(meta)
	var lenField [payloadLenSize]byte
	binary.BigEndian.PutUint64(lenField[:], uint64(len(env.Payload)))
	buf.Write(lenField[:])
	buf.Write(env.Payload)
	return buf.Bytes(), nil
}

// Unmarshal reconstructs an envelope from its flat byte form. The payload is
// copied out of the input so the envelope does not alias the caller's buffer.
func Unmarshal(data []byte) (*contracts.Envelope, error) {
	schemaID, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	meta, consumed, err := DecodeMetadata(data[contracts.HeaderSize:])
	if err != nil {
		return nil, err
	}
	if meta.SchemaID != schemaID {
		return nil, fmt.Errorf("%w: header schema id %d disagrees with metadata schema id %d",
			contracts.ErrMalformedMetadata, schemaID, meta.SchemaID)
	}

	rest := data[contracts.HeaderSize+consumed:]
	if len(rest) < payloadLenSize {
		return nil, fmt.Errorf("%w: missing payload length field", contracts.ErrTruncated)
	}
	payloadLen := binary.BigEndian.Uint64(rest[:payloadLenSize])
	rest = rest[payloadLenSize:]
	if uint64(len(rest)) < payloadLen {
		return nil, fmt.Errorf("%w: payload declares %d bytes, %d available",
			contracts.ErrTruncated, payloadLen, len(rest))
	}

	payload := make([]byte, payloadLen)
	copy(payload, rest[:payloadLen])

	env := &contracts.Envelope{Metadata: meta, Payload: payload}
	copy(env.Header[:], data[:contracts.HeaderSize])
	return env, nil
}
