package codec

import (
	"bytes"
	"errors"
	"io"

	"github.com/ValentinKolb/techlog/lib/record"
	"gopkg.in/yaml.v3"
)

// NewYAMLCodec creates a new codec using yaml, the most readable encoding for manual edits
func NewYAMLCodec() ICodec {
	return &yamlCodecImpl{}
}

// yamlCodecImpl implements the ICodec interface using yaml encoding
type yamlCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (y yamlCodecImpl) Name() string {
	return "yaml"
}

func (y yamlCodecImpl) Encode(records []record.Record) ([]byte, error) {
	doc, err := newDocument(records)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (y yamlCodecImpl) Decode(b []byte) ([]record.Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, invalid("yaml: empty document")
		}
		return nil, invalid("yaml: %v", err)
	}
	// a data file holds exactly one document
	var extra interface{}
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, invalid("yaml: trailing content")
	}
	return doc.records()
}
