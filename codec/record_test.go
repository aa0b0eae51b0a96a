package codec

import (
	"math"
	"testing"

	"github.com/binwrap/binwrap-go/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		record contracts.Value
	}{
		{"null", contracts.Null()},
		{"bool", contracts.Bool(true)},
		{"zero int", contracts.Int(0)},
		{"negative int", contracts.Int(-1234567)},
		{"max int", contracts.Int(math.MaxInt64)},
		{"min int", contracts.Int(math.MinInt64)},
		{"float", contracts.Float(3.141592653589793)},
		{"string", contracts.String("héllo wörld")},
		{"empty string", contracts.String("")},
		{"bytes", contracts.Bytes([]byte{0x00, 0xff, 0x10})},
		{"empty array", contracts.Array()},
		{"empty map", contracts.Map()},
		{
			"nested record",
			contracts.Map(
				contracts.Field("id", contracts.Int(1)),
				contracts.Field("name", contracts.String("Alice")),
				contracts.Field("scores", contracts.Array(
					contracts.Float(0.5), contracts.Int(2), contracts.Null(),
				)),
				contracts.Field("profile", contracts.Map(
					contracts.Field("active", contracts.Bool(true)),
					contracts.Field("avatar", contracts.Bytes([]byte("png..."))),
				)),
			),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := EncodeValue(tc.record)
			require.NoError(t, err)

			got, err := DecodeValue(data)
			require.NoError(t, err)
			assert.True(t, tc.record.Equal(got), "decoded value differs from original")
		})
	}
}

func TestRecordEncodingProperties(t *testing.T) {
	t.Run("map member order survives the round trip", func(t *testing.T) {
		record := contracts.Map(
			contracts.Field("zulu", contracts.Int(1)),
			contracts.Field("alpha", contracts.Int(2)),
			contracts.Field("mike", contracts.Int(3)),
		)
		data, err := EncodeValue(record)
		require.NoError(t, err)

		got, err := DecodeValue(data)
		require.NoError(t, err)
		require.Equal(t, 3, got.Len())
		assert.Equal(t, "zulu", got.Members()[0].Key)
		assert.Equal(t, "alpha", got.Members()[1].Key)
		assert.Equal(t, "mike", got.Members()[2].Key)
	})

	t.Run("encoding is deterministic", func(t *testing.T) {
		record := contracts.Map(
			contracts.Field("a", contracts.Int(1)),
			contracts.Field("b", contracts.String("x")),
		)
		first, err := EncodeValue(record)
		require.NoError(t, err)
		second, err := EncodeValue(record)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("trailing bytes fail with malformed payload", func(t *testing.T) {
		data, err := EncodeValue(contracts.Int(1))
		require.NoError(t, err)
		data = append(data, 0x01)

		_, err = DecodeValue(data)
		assert.ErrorIs(t, err, contracts.ErrMalformedPayload)
	})

	t.Run("truncated input fails with malformed payload", func(t *testing.T) {
		data, err := EncodeValue(contracts.String("a longer string payload"))
		require.NoError(t, err)

		_, err = DecodeValue(data[:len(data)-4])
		assert.ErrorIs(t, err, contracts.ErrMalformedPayload)
	})

	t.Run("empty input fails with malformed payload", func(t *testing.T) {
		_, err := DecodeValue(nil)
		assert.ErrorIs(t, err, contracts.ErrMalformedPayload)
	})
}
