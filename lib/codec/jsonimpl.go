package codec

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/ValentinKolb/techlog/lib/record"
)

// NewJSONCodec creates a new codec using indented json
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ICodec interface using json encoding
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Name() string {
	return "json"
}

func (j jsonCodecImpl) Encode(records []record.Record) ([]byte, error) {
	doc, err := newDocument(records)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func (j jsonCodecImpl) Decode(b []byte) ([]record.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, invalid("json: %v", err)
	}
	// Ensure no trailing junk.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, invalid("json: trailing content")
	}
	return doc.records()
}
