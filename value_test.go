package aokv

import (
	"bytes"
	"errors"
	"testing"
)

type upperCompressor struct{}

func (upperCompressor) Compress(data []byte) ([]byte, error) {
	return bytes.ToUpper(data), nil
}

func (upperCompressor) Decompress(data []byte) ([]byte, error) {
	return bytes.ToLower(data), nil
}

func TestEncodeDecodeValueJSONRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := JSONValue(map[string]any{"hello": "world"})
	if err != nil {
		t.Fatalf("JSONValue: %v", err)
	}

	body, err := EncodeValue(v, nil)
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	got, err := DecodeValue(body, nil)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}

	if got.Kind != KindJSON || string(got.JSON) != `{"hello":"world"}` {
		t.Fatalf("DecodeValue() = %+v", got)
	}
}

func TestJSONValueRejectsCyclicValue(t *testing.T) {
	t.Parallel()

	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	if _, err := JSONValue(cyclic); !errors.Is(err, ErrCyclicValue) {
		t.Fatalf("JSONValue(cyclic) error = %v, want ErrCyclicValue", err)
	}
}

func TestEncodeValueDiscardsCompressionProducingProbeBraceByte(t *testing.T) {
	t.Parallel()

	// probeBraceCompressor always returns a body whose 5th byte is '{', so
	// it must never be adopted even though it is shorter.
	v := RawBytesValue(bytes.Repeat([]byte("x"), 64))

	uncompressed, err := EncodeValue(v, nil)
	if err != nil {
		t.Fatalf("EncodeValue(nil): %v", err)
	}

	got, err := EncodeValue(v, probeBraceCompressor{})
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	if !bytes.Equal(got, uncompressed) {
		t.Fatal("expected the uncompressed form when compressed[4] == '{'")
	}
}

type probeBraceCompressor struct{}

func (probeBraceCompressor) Compress(data []byte) ([]byte, error) {
	out := make([]byte, 5)
	out[4] = '{'

	return out, nil
}

func (probeBraceCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func TestEncodeDecodeValueWithCompressor(t *testing.T) {
	t.Parallel()

	v := RawBytesValue([]byte("the quick brown fox jumps over the lazy dog, repeatedly, many times over"))

	body, err := EncodeValue(v, upperCompressor{})
	if err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	got, err := DecodeValue(body, upperCompressor{})
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}

	if got.Kind != KindRawBytesValue || !bytes.Equal(got.RawBytes, v.RawBytes) {
		t.Fatalf("DecodeValue() = %+v, want %+v", got, v)
	}
}

func TestNullIsTombstone(t *testing.T) {
	t.Parallel()

	if !Null().IsNull() {
		t.Fatal("Null() should report IsNull() == true")
	}

	v, err := JSONValue("not null")
	if err != nil {
		t.Fatalf("JSONValue: %v", err)
	}

	if v.IsNull() {
		t.Fatal("a non-null JSON value should report IsNull() == false")
	}
}

func TestDecodeValueBadVariant(t *testing.T) {
	t.Parallel()

	desc := []byte(`{"t":9}`)
	body := make([]byte, 4)
	hostEndian.PutUint32(body, uint32(len(desc)))
	body = append(body, desc...)

	if _, err := DecodeValue(body, nil); !errors.Is(err, ErrBadVariant) {
		t.Fatalf("DecodeValue() error = %v, want ErrBadVariant", err)
	}
}
