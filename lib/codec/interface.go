package codec

import "github.com/ValentinKolb/techlog/lib/record"

// ICodec is the interface for all record sequence encodings
type ICodec interface {
	// Name returns the configuration name of the codec (json, yaml, binary)
	Name() string
	// Encode serializes the full ordered record sequence into a byte array
	// It returns the serialized byte array and an error if any
	Encode(records []record.Record) ([]byte, error)
	// Decode deserializes a byte array produced by Encode
	// Every record is rebuilt through the validating constructors,
	// so a document with an invalid field is rejected as a whole
	Decode(b []byte) ([]record.Record, error)
}
