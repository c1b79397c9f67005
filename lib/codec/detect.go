package codec

import (
	"bytes"
	"fmt"

	"github.com/ValentinKolb/techlog/lib/record"
)

// ForName returns the codec registered under name
func ForName(name string) (ICodec, error) {
	switch name {
	case "json":
		return NewJSONCodec(), nil
	case "yaml":
		return NewYAMLCodec(), nil
	case "binary":
		return NewBinaryCodec(), nil
	case "msgpack":
		return NewMsgpackCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s", name)
	}
}

// Detect picks the codec able to read data by looking at its first bytes:
// the binary magic number, a MessagePack map header, an opening brace for
// json, yaml otherwise.
// Detection does not validate the data, Decode does.
func Detect(data []byte) (ICodec, error) {
	if len(data) == 0 {
		return nil, invalid("empty data")
	}
	if bytes.HasPrefix(data, []byte(binaryMagic)) {
		return NewBinaryCodec(), nil
	}
	if data[0]&0xf0 == 0x80 {
		return NewMsgpackCodec(), nil
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return NewJSONCodec(), nil
	}
	return NewYAMLCodec(), nil
}

// DecodeAny detects the encoding of data and decodes it.
// It returns the codec that was used, so callers can report it.
func DecodeAny(data []byte) ([]record.Record, ICodec, error) {
	c, err := Detect(data)
	if err != nil {
		return nil, nil, err
	}
	records, err := c.Decode(data)
	if err != nil {
		return nil, c, err
	}
	return records, c, nil
}
