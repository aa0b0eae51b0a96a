package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {
	t.Run("zero value is null", func(t *testing.T) {
		var v Value
		assert.Equal(t, KindNull, v.Kind())
		assert.True(t, v.IsNull())
	})

	t.Run("scalars report their kind and payload", func(t *testing.T) {
		assert.Equal(t, KindBool, Bool(true).Kind())
		assert.True(t, Bool(true).Bool())
		assert.Equal(t, int64(-42), Int(-42).Int())
		assert.Equal(t, 2.5, Float(2.5).Float())
		assert.Equal(t, "hello", String("hello").Text())
		assert.Equal(t, []byte{1, 2, 3}, Bytes([]byte{1, 2, 3}).Bin())
	})

	t.Run("map preserves member order", func(t *testing.T) {
		v := Map(
			Field("zulu", Int(1)),
			Field("alpha", Int(2)),
			Field("mike", Int(3)),
		)
		require.Equal(t, 3, v.Len())
		assert.Equal(t, "zulu", v.Members()[0].Key)
		assert.Equal(t, "alpha", v.Members()[1].Key)
		assert.Equal(t, "mike", v.Members()[2].Key)
	})

	t.Run("get finds keys and reports absence", func(t *testing.T) {
		v := Map(Field("id", Int(1)))

		got, ok := v.Get("id")
		require.True(t, ok)
		assert.Equal(t, int64(1), got.Int())

		_, ok = v.Get("missing")
		assert.False(t, ok)

		_, ok = Int(5).Get("id")
		assert.False(t, ok)
	})
}

func TestValueEqual(t *testing.T) {
	nested := Map(
		Field("id", Int(1)),
		Field("tags", Array(String("a"), String("b"))),
		Field("blob", Bytes([]byte{0xde, 0xad})),
		Field("nested", Map(Field("ok", Bool(true)), Field("score", Float(0.5)))),
		Field("none", Null()),
	)

	t.Run("deep equality holds for identical trees", func(t *testing.T) {
		other := Map(
			Field("id", Int(1)),
			Field("tags", Array(String("a"), String("b"))),
			Field("blob", Bytes([]byte{0xde, 0xad})),
			Field("nested", Map(Field("ok", Bool(true)), Field("score", Float(0.5)))),
			Field("none", Null()),
		)
		assert.True(t, nested.Equal(other))
	})

	t.Run("member order matters", func(t *testing.T) {
		a := Map(Field("x", Int(1)), Field("y", Int(2)))
		b := Map(Field("y", Int(2)), Field("x", Int(1)))
		assert.False(t, a.Equal(b))
	})

	t.Run("kind mismatch is never equal", func(t *testing.T) {
		assert.False(t, Int(1).Equal(Float(1)))
		assert.False(t, String("1").Equal(Int(1)))
	})
}

func TestFromInterface(t *testing.T) {
	t.Run("converts plain go values", func(t *testing.T) {
		v, err := FromInterface(map[string]any{
			"name":  "Alice",
			"age":   30,
			"score": 1.5,
			"tags":  []any{"x", "y"},
			"blob":  []byte{1},
			"gone":  nil,
		})
		require.NoError(t, err)
		require.Equal(t, KindMap, v.Kind())

		name, ok := v.Get("name")
		require.True(t, ok)
		assert.Equal(t, "Alice", name.Text())

		age, ok := v.Get("age")
		require.True(t, ok)
		assert.Equal(t, int64(30), age.Int())
	})

	t.Run("map keys come out sorted", func(t *testing.T) {
		v, err := FromInterface(map[string]any{"b": 1, "a": 2, "c": 3})
		require.NoError(t, err)
		assert.Equal(t, "a", v.Members()[0].Key)
		assert.Equal(t, "b", v.Members()[1].Key)
		assert.Equal(t, "c", v.Members()[2].Key)
	})

	t.Run("unsupported types fail with invalid argument", func(t *testing.T) {
		_, err := FromInterface(struct{}{})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}
