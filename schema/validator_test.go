package schema

import (
	"errors"
	"testing"

	"github.com/binwrap/binwrap-go/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userSchema = []byte(`{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id":   {"type": "integer"},
		"name": {"type": "string"},
		"age":  {"type": "integer", "minimum": 0}
	}
}`)

func TestNewValidator(t *testing.T) {
	t.Run("compiles a valid document", func(t *testing.T) {
		v, err := NewValidator(contracts.SchemaDescriptor{ID: 7, Document: userSchema})
		require.NoError(t, err)
		assert.Equal(t, uint32(7), v.SchemaID())
	})

	t.Run("rejects an empty document", func(t *testing.T) {
		_, err := NewValidator(contracts.SchemaDescriptor{ID: 1})
		assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
	})

	t.Run("rejects a document that is not a schema", func(t *testing.T) {
		_, err := NewValidator(contracts.SchemaDescriptor{ID: 1, Document: []byte(`{"type": 42}`)})
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	v, err := NewValidator(contracts.SchemaDescriptor{ID: 3, Document: userSchema})
	require.NoError(t, err)

	t.Run("accepts a conforming record", func(t *testing.T) {
		record := contracts.Map(
			contracts.Field("id", contracts.Int(1)),
			contracts.Field("name", contracts.String("Alice")),
			contracts.Field("age", contracts.Int(30)),
		)
		assert.NoError(t, v.Validate(record))
	})

	t.Run("record missing required fields is rejected", func(t *testing.T) {
		record := contracts.Map(contracts.Field("age", contracts.Int(5)))

		err := v.Validate(record)
		require.Error(t, err)

		var violation *contracts.SchemaViolationError
		require.True(t, errors.As(err, &violation))
		assert.Equal(t, uint32(3), violation.SchemaID)
		assert.NotEmpty(t, violation.Causes)
	})

	t.Run("wrong property type is rejected", func(t *testing.T) {
		record := contracts.Map(
			contracts.Field("id", contracts.String("not-a-number")),
			contracts.Field("name", contracts.String("Alice")),
		)

		var violation *contracts.SchemaViolationError
		assert.True(t, errors.As(v.Validate(record), &violation))
	})

	t.Run("large integers validate as integers", func(t *testing.T) {
		record := contracts.Map(
			contracts.Field("id", contracts.Int(1<<62)),
			contracts.Field("name", contracts.String("big")),
		)
		assert.NoError(t, v.Validate(record))
	})
}
