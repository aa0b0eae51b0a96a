package codec

import (
	"bytes"
	"fmt"

	"github.com/binwrap/binwrap-go/contracts"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// EncodeValue turns a record into its canonical msgpack form. The encoder is
// driven explicitly over the Value variant so map member order survives and
// every scalar round-trips exactly.
func EncodeValue(record contracts.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeValue(enc, record); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeValue(enc *msgpack.Encoder, v contracts.Value) error {
	switch v.Kind() {
	case contracts.KindNull:
		return enc.EncodeNil()
	case contracts.KindBool:
		return enc.EncodeBool(v.Bool())
	case contracts.KindInt:
		return enc.EncodeInt(v.Int())
	case contracts.KindFloat:
		return enc.EncodeFloat64(v.Float())
	case contracts.KindString:
		return enc.EncodeString(v.Text())
	case contracts.KindBytes:
		return enc.EncodeBytes(v.Bin())
	case contracts.KindArray:
		if err := enc.EncodeArrayLen(v.Len()); err != nil {
			return err
		}
		for _, item := range v.Items() {
			if err := encodeValue(enc, item); err != nil {
				return err
			}
		}
		return nil
	case contracts.KindMap:
		if err := enc.EncodeMapLen(v.Len()); err != nil {
			return err
		}
		for _, m := range v.Members() {
			if err := enc.EncodeString(m.Key); err != nil {
				return err
			}
			if err := encodeValue(enc, m.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported value kind %s", contracts.ErrInvalidArgument, v.Kind())
	}
}

// DecodeValue reconstructs a record from its canonical msgpack form. Inputs
// that are not exactly one well-formed value fail with
// contracts.ErrMalformedPayload.
func DecodeValue(data []byte) (contracts.Value, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	v, err := decodeValue(dec)
	if err != nil {
		return contracts.Value{}, fmt.Errorf("%w: %v", contracts.ErrMalformedPayload, err)
	}
	if r.Len() != 0 {
		return contracts.Value{}, fmt.Errorf("%w: %d trailing bytes after record",
			contracts.ErrMalformedPayload, r.Len())
	}
	return v, nil
}

func decodeValue(dec *msgpack.Decoder) (contracts.Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return contracts.Value{}, err
	}

	switch {
	case code == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return contracts.Value{}, err
		}
		return contracts.Null(), nil

	case code == msgpcode.False || code == msgpcode.True:
		b, err := dec.DecodeBool()
		if err != nil {
			return contracts.Value{}, err
		}
		return contracts.Bool(b), nil

	case msgpcode.IsFixedNum(code),
		code == msgpcode.Int8, code == msgpcode.Int16, code == msgpcode.Int32, code == msgpcode.Int64,
		code == msgpcode.Uint8, code == msgpcode.Uint16, code == msgpcode.Uint32, code == msgpcode.Uint64:
		i, err := dec.DecodeInt64()
		if err != nil {
			return contracts.Value{}, err
		}
		return contracts.Int(i), nil

	case code == msgpcode.Float, code == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return contracts.Value{}, err
		}
		return contracts.Float(f), nil

	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		if err != nil {
			return contracts.Value{}, err
		}
		return contracts.String(s), nil

	case msgpcode.IsBin(code):
		b, err := dec.DecodeBytes()
		if err != nil {
			return contracts.Value{}, err
		}
		return contracts.Bytes(b), nil

	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return contracts.Value{}, err
		}
		items := make([]contracts.Value, 0, n)
		for i := 0; i < n; i++ {
			item, err := decodeValue(dec)
			if err != nil {
				return contracts.Value{}, err
			}
			items = append(items, item)
		}
		return contracts.Array(items...), nil

	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return contracts.Value{}, err
		}
		members := make([]contracts.Member, 0, n)
		for i := 0; i < n; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				return contracts.Value{}, err
			}
			val, err := decodeValue(dec)
			if err != nil {
				return contracts.Value{}, err
			}
			members = append(members, contracts.Field(key, val))
		}
		return contracts.Map(members...), nil

	default:
		return contracts.Value{}, fmt.Errorf("unsupported msgpack code 0x%02x", code)
	}
}
