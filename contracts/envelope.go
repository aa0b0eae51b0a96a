package contracts

// HeaderSize is the fixed length of an envelope header: 2 magic bytes
// followed by a big-endian uint32 schema identifier.
const HeaderSize = 6

// Compression names the algorithm applied to the payload before any
// encryption. The tag recorded in metadata must match how the payload was
// actually produced.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// Encryption names the cipher applied to the payload, so an envelope is
// self-describing and the read path knows whether to decrypt.
type Encryption string

const (
	EncryptionNone      Encryption = "none"
	EncryptionAES256GCM Encryption = "aes256gcm"
)

// Metadata describes how to interpret an envelope payload. It is written
// during construction and read-only afterward.
type Metadata struct {
	// SchemaID duplicates the header's schema identifier so the metadata
	// block is self-describing on its own.
	SchemaID uint32 `msgpack:"schema_id" json:"schemaId"`
	// Timestamp is seconds since epoch, set at creation time.
	Timestamp int64 `msgpack:"timestamp" json:"timestamp"`
	// Compression tags the algorithm used on the encoded record bytes.
	Compression Compression `msgpack:"compression" json:"compression"`
	// Encryption tags the cipher sealing the payload, or "none".
	Encryption Encryption `msgpack:"encryption" json:"encryption"`
	// ContentID uniquely identifies the envelope, for correlation across
	// transports and logs.
	ContentID string `msgpack:"content_id,omitempty" json:"contentId,omitempty"`
}

// Envelope is the unit of exchange: a fixed header, self-delimiting
// metadata and an opaque payload. An envelope is immutable once built;
// the only permitted in-place change is the payload swap performed by
// encryption and decryption.
type Envelope struct {
	Header   [HeaderSize]byte
	Metadata Metadata
	Payload  []byte
}

// SchemaDescriptor pairs an opaque schema document with the numeric
// identifier used to tag which schema a record was validated against.
// The document's contents are interpreted by the schema package only.
type SchemaDescriptor struct {
	ID       uint32
	Document []byte
}
