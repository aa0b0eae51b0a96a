package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/binwrap/binwrap-go/codec"
	"github.com/binwrap/binwrap-go/contracts"
	"github.com/binwrap/binwrap-go/security"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// DefaultSchemaID tags records serialized without an explicit schema.
const DefaultSchemaID = 1

// Validator checks a record against a schema before encoding. Implemented by
// schema.Validator.
type Validator interface {
	SchemaID() uint32
	Validate(record contracts.Value) error
}

// Serializer runs the transform pipeline. Configuration is immutable after
// construction, so one Serializer may serve many concurrent operations.
type Serializer struct {
	validator Validator
	security  *security.SecurityContext
	logger    *slog.Logger
	observer  StageObserver
	zenc      *zstd.Encoder
	zdec      *zstd.Decoder
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithSchema attaches a schema validator. Records are validated before
// encoding and tagged with the validator's schema id by default.
func WithSchema(v Validator) SerializerOption {
	return func(s *Serializer) {
		s.validator = v
	}
}

// WithSecurity attaches the security context used for sealing and opening
// payloads.
func WithSecurity(sc *security.SecurityContext) SerializerOption {
	return func(s *Serializer) {
		s.security = sc
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SerializerOption {
	return func(s *Serializer) {
		s.logger = logger
	}
}

// WithObserver attaches a stage observer.
func WithObserver(observer StageObserver) SerializerOption {
	return func(s *Serializer) {
		s.observer = observer
	}
}

// NewSerializer creates a serializer with the given options.
func NewSerializer(opts ...SerializerOption) (*Serializer, error) {
	s := &Serializer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	zenc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("init compressor: %w", err)
	}
	zdec, err := zstd.NewReader(nil)
	if err != nil {
		zenc.Close()
		return nil, fmt.Errorf("init decompressor: %w", err)
	}
	s.zenc = zenc
	s.zdec = zdec
	return s, nil
}

// Close releases the compression resources. The serializer must not be used
// afterward.
func (s *Serializer) Close() error {
	s.zdec.Close()
	return s.zenc.Close()
}

type serializeConfig struct {
	schemaID uint32
	compress bool
	encrypt  bool
}

// SerializeOption configures a single Serialize call.
type SerializeOption func(*serializeConfig)

// WithSchemaID overrides the schema id recorded in the envelope.
func WithSchemaID(id uint32) SerializeOption {
	return func(c *serializeConfig) {
		c.schemaID = id
	}
}

// WithCompression enables or disables payload compression. Compression is on
// by default.
func WithCompression(enabled bool) SerializeOption {
	return func(c *serializeConfig) {
		c.compress = enabled
	}
}

// WithEncryption enables or disables payload sealing. Encryption is off by
// default and requires a security context.
func WithEncryption(enabled bool) SerializeOption {
	return func(c *serializeConfig) {
		c.encrypt = enabled
	}
}

// Serialize runs the write path: validate, encode, compress, encrypt. It
// returns a completed self-describing envelope, or an error with no partial
// envelope produced.
func (s *Serializer) Serialize(ctx context.Context, record contracts.Value, opts ...SerializeOption) (*contracts.Envelope, error) {
	cfg := serializeConfig{schemaID: DefaultSchemaID, compress: true}
	if s.validator != nil {
		cfg.schemaID = s.validator.SchemaID()
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.encrypt && s.security == nil {
		return nil, fmt.Errorf("%w: encryption requested without a security context",
			contracts.ErrInvalidArgument)
	}

	if s.validator != nil {
		if err := s.runStage(ctx, StageValidate, 0, func() ([]byte, error) {
			return nil, s.validator.Validate(record)
		}); err != nil {
			return nil, err
		}
	}

	var payload []byte
	if err := s.runStage(ctx, StageEncode, 0, func() ([]byte, error) {
		var err error
		payload, err = codec.EncodeValue(record)
		return payload, err
	}); err != nil {
		return nil, err
	}

	compression := contracts.CompressionNone
	if cfg.compress {
		if err := s.runStage(ctx, StageCompress, len(payload), func() ([]byte, error) {
			payload = s.zenc.EncodeAll(payload, nil)
			return payload, nil
		}); err != nil {
			return nil, err
		}
		compression = contracts.CompressionZstd
	}

	encryption := contracts.EncryptionNone
	if cfg.encrypt {
		if err := s.runStage(ctx, StageEncrypt, len(payload), func() ([]byte, error) {
			var err error
			payload, err = s.security.Seal(payload)
			return payload, err
		}); err != nil {
			return nil, err
		}
		encryption = contracts.EncryptionAES256GCM
	}

	env := &contracts.Envelope{
		Header: codec.BuildHeader(cfg.schemaID),
		Metadata: contracts.Metadata{
			SchemaID:    cfg.schemaID,
			Timestamp:   time.Now().Unix(),
			Compression: compression,
			Encryption:  encryption,
			ContentID:   uuid.NewString(),
		},
		Payload: payload,
	}

	s.logger.DebugContext(ctx, "record serialized",
		"contentId", env.Metadata.ContentID,
		"schemaId", cfg.schemaID,
		"compression", string(compression),
		"encryption", string(encryption),
		"payloadSize", len(payload))
	return env, nil
}

// Deserialize runs the read path: decrypt, decompress, decode, driven by the
// envelope's own metadata. An authentication failure aborts before the
// payload can reach the decompressor or decoder.
func (s *Serializer) Deserialize(ctx context.Context, env *contracts.Envelope) (contracts.Value, error) {
	if env == nil {
		return contracts.Value{}, fmt.Errorf("%w: nil envelope", contracts.ErrInvalidArgument)
	}
	schemaID, err := codec.ParseHeader(env.Header[:])
	if err != nil {
		return contracts.Value{}, err
	}
	if schemaID != env.Metadata.SchemaID {
		return contracts.Value{}, fmt.Errorf("%w: header schema id %d disagrees with metadata schema id %d",
			contracts.ErrMalformedMetadata, schemaID, env.Metadata.SchemaID)
	}

	payload := env.Payload

	switch env.Metadata.Encryption {
	case contracts.EncryptionNone:
	case contracts.EncryptionAES256GCM:
		if s.security == nil {
			return contracts.Value{}, fmt.Errorf("%w: envelope is encrypted but no security context is configured",
				contracts.ErrInvalidArgument)
		}
		if err := s.runStage(ctx, StageDecrypt, len(payload), func() ([]byte, error) {
			var err error
			payload, err = s.security.Open(payload)
			return payload, err
		}); err != nil {
			return contracts.Value{}, err
		}
	default:
		return contracts.Value{}, fmt.Errorf("%w: unknown encryption tag %q",
			contracts.ErrMalformedMetadata, env.Metadata.Encryption)
	}

	switch env.Metadata.Compression {
	case contracts.CompressionNone:
	case contracts.CompressionZstd:
		if err := s.runStage(ctx, StageDecompress, len(payload), func() ([]byte, error) {
			decompressed, err := s.zdec.DecodeAll(payload, nil)
			if err != nil {
				// The one tolerated fallback: a payload tagged zstd that is
				// not a zstd stream is treated as already decompressed. Any
				// other decompression failure is terminal.
				if errors.Is(err, zstd.ErrMagicMismatch) {
					s.logger.WarnContext(ctx, "payload tagged zstd is not a zstd stream, using raw bytes",
						"contentId", env.Metadata.ContentID)
					return payload, nil
				}
				return nil, fmt.Errorf("%w: %v", contracts.ErrMalformedPayload, err)
			}
			payload = decompressed
			return payload, nil
		}); err != nil {
			return contracts.Value{}, err
		}
	default:
		return contracts.Value{}, fmt.Errorf("%w: unknown compression tag %q",
			contracts.ErrMalformedMetadata, env.Metadata.Compression)
	}

	var record contracts.Value
	if err := s.runStage(ctx, StageDecode, len(payload), func() ([]byte, error) {
		var err error
		record, err = codec.DecodeValue(payload)
		return payload, err
	}); err != nil {
		return contracts.Value{}, err
	}

	s.logger.DebugContext(ctx, "record deserialized",
		"contentId", env.Metadata.ContentID,
		"schemaId", schemaID)
	return record, nil
}

// runStage executes one pipeline stage and notifies the observer with the
// outcome. The stage's error is returned unchanged.
func (s *Serializer) runStage(ctx context.Context, stage Stage, inputSize int, fn func() ([]byte, error)) error {
	start := time.Now()
	out, err := fn()
	if s.observer != nil {
		s.observer.OnStage(ctx, StageEvent{
			Stage:      stage,
			Duration:   time.Since(start),
			InputSize:  inputSize,
			OutputSize: len(out),
			Err:        err,
		})
	}
	return err
}
