package rabbitmq

import (
	"testing"

	"github.com/binwrap/binwrap-go/chunker"
	"github.com/binwrap/binwrap-go/codec"
	"github.com/binwrap/binwrap-go/contracts"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkedEnvelope(t *testing.T, size int) (*contracts.Envelope, [][]byte) {
	t.Helper()
	env := &contracts.Envelope{
		Header: codec.BuildHeader(2),
		Metadata: contracts.Metadata{
			SchemaID:    2,
			Timestamp:   1700000000,
			Compression: contracts.CompressionNone,
			Encryption:  contracts.EncryptionNone,
			ContentID:   "env-1",
		},
		Payload: []byte("a payload large enough to span several chunks of the chosen size"),
	}
	data, err := codec.Marshal(env)
	require.NoError(t, err)
	chunks, err := chunker.Split(data, size)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	return env, chunks
}

func headersFor(index, count int) amqp.Table {
	return amqp.Table{
		headerChunkIndex: int32(index),
		headerChunkCount: int32(count),
	}
}

func TestCollector(t *testing.T) {
	t.Run("reassembles chunks delivered in order", func(t *testing.T) {
		env, chunks := chunkedEnvelope(t, 16)
		c := NewCollector()

		for i, chunk := range chunks[:len(chunks)-1] {
			got, complete, err := c.Add("env-1", headersFor(i, len(chunks)), chunk)
			require.NoError(t, err)
			assert.False(t, complete)
			assert.Nil(t, got)
		}

		got, complete, err := c.Add("env-1", headersFor(len(chunks)-1, len(chunks)), chunks[len(chunks)-1])
		require.NoError(t, err)
		require.True(t, complete)
		assert.Equal(t, env.Metadata, got.Metadata)
		assert.Equal(t, env.Payload, got.Payload)
		assert.Zero(t, c.Pending())
	})

	t.Run("reassembles chunks delivered out of order", func(t *testing.T) {
		env, chunks := chunkedEnvelope(t, 16)
		c := NewCollector()

		order := []int{len(chunks) - 1}
		for i := 0; i < len(chunks)-1; i++ {
			order = append(order, i)
		}

		var got *contracts.Envelope
		var complete bool
		var err error
		for _, i := range order {
			got, complete, err = c.Add("env-1", headersFor(i, len(chunks)), chunks[i])
			require.NoError(t, err)
		}
		require.True(t, complete)
		assert.Equal(t, env.Payload, got.Payload)
	})

	t.Run("interleaved envelopes do not mix", func(t *testing.T) {
		_, first := chunkedEnvelope(t, 16)
		c := NewCollector()

		_, complete, err := c.Add("a", headersFor(0, len(first)), first[0])
		require.NoError(t, err)
		assert.False(t, complete)

		_, complete, err = c.Add("b", headersFor(0, len(first)), first[0])
		require.NoError(t, err)
		assert.False(t, complete)
		assert.Equal(t, 2, c.Pending())
	})

	t.Run("duplicate chunks are idempotent", func(t *testing.T) {
		env, chunks := chunkedEnvelope(t, 32)
		c := NewCollector()

		for i := 0; i < 3; i++ {
			_, complete, err := c.Add("env-1", headersFor(0, len(chunks)), chunks[0])
			require.NoError(t, err)
			assert.False(t, complete)
		}

		var got *contracts.Envelope
		var complete bool
		var err error
		for i := 1; i < len(chunks); i++ {
			got, complete, err = c.Add("env-1", headersFor(i, len(chunks)), chunks[i])
			require.NoError(t, err)
		}
		require.True(t, complete)
		assert.Equal(t, env.Payload, got.Payload)
	})

	t.Run("rejects chunks without headers", func(t *testing.T) {
		c := NewCollector()
		_, _, err := c.Add("x", amqp.Table{}, []byte("body"))
		assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
	})

	t.Run("rejects an out of range index", func(t *testing.T) {
		c := NewCollector()
		_, _, err := c.Add("x", headersFor(5, 3), []byte("body"))
		assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
	})

	t.Run("rejects a missing message id", func(t *testing.T) {
		c := NewCollector()
		_, _, err := c.Add("", headersFor(0, 1), []byte("body"))
		assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
	})

	t.Run("rejects a changed chunk count", func(t *testing.T) {
		_, chunks := chunkedEnvelope(t, 16)
		c := NewCollector()

		_, _, err := c.Add("env-1", headersFor(0, len(chunks)), chunks[0])
		require.NoError(t, err)
		_, _, err = c.Add("env-1", headersFor(1, len(chunks)+1), chunks[1])
		assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
	})

	t.Run("reassembled garbage surfaces a format error", func(t *testing.T) {
		c := NewCollector()
		_, complete, err := c.Add("bad", headersFor(0, 1), []byte("not an envelope"))
		require.Error(t, err)
		assert.False(t, complete)
		assert.True(t, contracts.IsFormatError(err))
	})
}
