package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/binwrap/binwrap-go/codec"
	"github.com/binwrap/binwrap-go/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEnvelope() *contracts.Envelope {
	return &contracts.Envelope{
		Header: codec.BuildHeader(11),
		Metadata: contracts.Metadata{
			SchemaID:    11,
			Timestamp:   1700000000,
			Compression: contracts.CompressionZstd,
			Encryption:  contracts.EncryptionNone,
			ContentID:   "envelope-11",
		},
		Payload: []byte("opaque payload bytes"),
	}
}

func TestSaveLoad(t *testing.T) {
	t.Run("round trips through a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "record.bw")
		env := sampleEnvelope()

		require.NoError(t, Save(env, path))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, env.Header, got.Header)
		assert.Equal(t, env.Metadata, got.Metadata)
		assert.Equal(t, env.Payload, got.Payload)
	})

	t.Run("round trips through a stream", func(t *testing.T) {
		var buf bytes.Buffer
		env := sampleEnvelope()

		require.NoError(t, SaveTo(&buf, env))

		got, err := LoadFrom(&buf)
		require.NoError(t, err)
		assert.Equal(t, env.Payload, got.Payload)
	})

	t.Run("load of a three byte file fails with truncated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "short.bw")
		require.NoError(t, os.WriteFile(path, []byte{0x42, 0x57, 0x00}, 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, contracts.ErrTruncated)
	})

	t.Run("load of a foreign file fails with bad magic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "foreign.bin")
		require.NoError(t, os.WriteFile(path, []byte("GIF89a trailer"), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, contracts.ErrBadMagic)
	})

	t.Run("missing file propagates the io error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.bw"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("save rejects an inconsistent envelope", func(t *testing.T) {
		env := sampleEnvelope()
		env.Metadata.SchemaID = 12

		err := Save(env, filepath.Join(t.TempDir(), "bad.bw"))
		assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
	})
}
