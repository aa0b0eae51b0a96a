// Package codec implements the binwrap envelope framing and the compact
// binary record encoding.
//
// The on-disk/on-wire layout is, in order:
//
//	header        6 bytes: magic 0x42 0x57 ("BW") + big-endian uint32 schema id
//	metadata      msgpack map, self-delimiting
//	payload_len   8 bytes, big-endian uint64
//	payload       payload_len bytes
//
// Bytes after the payload are ignored, so framed transports may append
// trailer data without breaking readers.
//
// Records are encoded as msgpack driven explicitly over the contracts.Value
// variant type, which keeps map member order and round-trips every supported
// scalar exactly.
package codec
