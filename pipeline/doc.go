// Package pipeline orchestrates the binwrap transform pipeline.
//
// The write path runs validate, encode, compress, encrypt in that order and
// emits a completed envelope; any failure aborts the whole operation with no
// partial envelope. The read path is the exact inverse: decrypt before
// decompress before decode, so a forged payload is rejected before it can
// reach the decoder.
//
// A Serializer is configured once with a schema validator, a security
// context and a logger, and is safe for concurrent use. Per-call options
// select compression and encryption for each record.
package pipeline
